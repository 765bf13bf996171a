package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	requestTimeout = 10 * time.Second
	exportTimeout  = 2 * time.Minute
)

// FormatAmount formats an amount in euros.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

// RequestCtx returns a context with a standard timeout for API calls.
func RequestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
