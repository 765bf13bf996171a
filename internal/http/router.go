package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/billed/internal/auth"
	authHandler "github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/http/bill"
	"github.com/MrJamesThe3rd/billed/internal/http/receipt"
)

type Options struct {
	AllowedOrigins []string
	Registry       *prometheus.Registry
}

func New(
	authSvc *auth.Service,
	authV1 *authHandler.Handler,
	billsV1 *bill.Handler,
	receipts *receipt.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	router.Use(newMetrics(reg).instrument)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	router.Route("/receipts", receipts.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Use(auth.RequireAuth(authSvc))
			r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
			billsV1.Routes(r)
		})
	})

	return router
}
