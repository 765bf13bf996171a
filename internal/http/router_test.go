package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billed/internal/auth"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/client"
	billedHttp "github.com/MrJamesThe3rd/billed/internal/http"
	authHandler "github.com/MrJamesThe3rd/billed/internal/http/auth"
	billHandler "github.com/MrJamesThe3rd/billed/internal/http/bill"
	receiptHandler "github.com/MrJamesThe3rd/billed/internal/http/receipt"
	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

type memUsers struct {
	users map[string]*auth.User
}

func (m *memUsers) UpsertUser(_ context.Context, user *auth.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return u, nil
}

func newAPI(t *testing.T, repo bill.Repository) *httptest.Server {
	t.Helper()

	authSvc := auth.NewService(&memUsers{users: map[string]*auth.User{}}, auth.NewJWTManager("secret", time.Hour))
	require.NoError(t, authSvc.Ensure(context.Background(), "employee@test.tld", "employee", auth.TypeEmployee))

	var handler http.Handler

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	receipts := receipt.NewStorage(t.TempDir(), srv.URL+"/receipts", 1<<20)

	handler = billedHttp.New(
		authSvc,
		authHandler.NewHandler(authSvc),
		billHandler.NewHandler(bill.NewService(repo), receipts),
		receiptHandler.NewHandler(receipts),
		billedHttp.Options{AllowedOrigins: []string{"http://localhost:8080"}},
	)

	return srv
}

func TestRouter_EmployeeFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bill.NewMockRepository(ctrl)
	srv := newAPI(t, repo)

	resp, err := http.Get(srv.URL + "/api/v1/bills")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c := client.New(srv.URL, 5*time.Second)

	_, err = c.Login(context.Background(), "employee@test.tld", "wrong")
	assert.EqualError(t, err, "Erreur 401")

	user, err := c.Login(context.Background(), "employee@test.tld", "employee")
	require.NoError(t, err)
	assert.Equal(t, "Employee", user.Type)
	assert.NotEmpty(t, c.Token())

	id := uuid.New()
	repo.EXPECT().
		CreateBill(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *bill.Bill) error {
			b.ID = id
			return nil
		})

	created, err := c.Bills().Create(context.Background(), client.CreateRequest{
		FileName: "Ticket Métro.PNG",
		Content:  strings.NewReader("image"),
		Email:    user.Email,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.Key)
	assert.Equal(t, "Ticket_Metro.PNG", created.FileName)

	resp, err = http.Get(created.FileURL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image", string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	_, err = c.Bills().Create(context.Background(), client.CreateRequest{
		FileName: "facture.pdf",
		Content:  strings.NewReader("%PDF"),
	})
	assert.EqualError(t, err, "Erreur 400")

	email := "employee@test.tld"
	repo.EXPECT().
		ListBills(gomock.Any(), bill.ListFilter{Email: &email}).
		Return([]*bill.Bill{
			{ID: uuid.New(), Email: email, Type: "Transports", Name: "old", Date: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), Email: email, Type: "Transports", Name: "new", Date: time.Date(2004, 4, 4, 0, 0, 0, 0, time.UTC)},
		}, nil)

	bills, err := c.Bills().List(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "new", bills[0].Name)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metrics, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Contains(t, string(metrics), "billed_http_requests_total")
	assert.Contains(t, string(metrics), `status="401"`)
}

func TestRouter_ReceiptNotFound(t *testing.T) {
	srv := newAPI(t, bill.NewMockRepository(gomock.NewController(t)))

	resp, err := http.Get(srv.URL + "/receipts/missing.jpg")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
