package view

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type fakeBills struct {
	mu sync.Mutex

	bills   []*bill.Bill
	listErr error

	created   *client.Created
	createErr error
	updateErr error
	statusErr error
	deleteErr error

	createCalls int
	updateCalls int
	statusCalls int

	uploaded     []string
	uploadedBody []string
	updated      *bill.Bill
	statuses     []bill.Status
	comments     []string
	deleted      []uuid.UUID
}

func (f *fakeBills) List(context.Context) ([]*bill.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]*bill.Bill, len(f.bills))
	copy(out, f.bills)

	return out, nil
}

func (f *fakeBills) Create(_ context.Context, req client.CreateRequest) (*client.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	f.uploaded = append(f.uploaded, req.FileName)

	body, _ := io.ReadAll(req.Content)
	f.uploadedBody = append(f.uploadedBody, string(body))

	if f.createErr != nil {
		return nil, f.createErr
	}

	if f.created != nil {
		return f.created, nil
	}

	return &client.Created{Key: uuid.New(), FileURL: "http://localhost/receipts/" + req.FileName, FileName: req.FileName}, nil
}

func (f *fakeBills) Update(_ context.Context, id uuid.UUID, b *bill.Bill) (*bill.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	f.updated = b

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	return b, nil
}

func (f *fakeBills) UpdateStatus(_ context.Context, _ uuid.UUID, status bill.Status, commentAdmin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statusCalls++
	f.statuses = append(f.statuses, status)
	f.comments = append(f.comments, commentAdmin)

	return f.statusErr
}

func (f *fakeBills) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, id)

	return f.deleteErr
}

type fakeStore struct {
	bills    *fakeBills
	user     session.User
	loginErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{bills: &fakeBills{}}
}

func (s *fakeStore) Bills() client.BillsAPI { return s.bills }

func (s *fakeStore) Login(_ context.Context, email, _ string) (session.User, error) {
	if s.loginErr != nil {
		return session.User{}, s.loginErr
	}

	u := s.user
	u.Email = email

	return u, nil
}

type fakeSessions struct {
	user  session.User
	err   error
	saved []session.User
}

func employeeSession() *fakeSessions {
	return &fakeSessions{user: session.User{Type: "Employee", Email: "employee@test.tld", Token: "tok"}}
}

func (s *fakeSessions) Load() (session.User, error) {
	if s.err != nil {
		return session.User{}, s.err
	}

	return s.user, nil
}

func (s *fakeSessions) Save(u session.User) error {
	s.saved = append(s.saved, u)
	return s.err
}

type fakeModal struct {
	shows   int
	title   string
	fileURL string
	visible bool
}

func (m *fakeModal) Show(title, fileURL string) {
	m.shows++
	m.title = title
	m.fileURL = fileURL
	m.visible = true
}

func (m *fakeModal) Hide()         { m.visible = false }
func (m *fakeModal) Visible() bool { return m.visible }
func (m *fakeModal) View() string  { return "modal:" + m.fileURL }
