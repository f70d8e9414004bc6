package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, email, password string) (Account, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(Account), args.Error(1)
}

func (m *mockAuthenticator) Logout(ctx context.Context) {
	m.Called(ctx)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAll(ctx context.Context) ([]Entry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

type mockSensor struct {
	mock.Mock
}

func (m *mockSensor) Available() bool {
	return m.Called().Bool(0)
}

func (m *mockSensor) Challenge(ctx context.Context, reason string) (bool, error) {
	args := m.Called(ctx, reason)
	return args.Bool(0), args.Error(1)
}

var errDiskFull = errors.New("disk full")

// brokenMedium is a MemoryMedium whose writes fail while broken is set.
type brokenMedium struct {
	*MemoryMedium
	mu     sync.Mutex
	broken bool
}

func newBrokenMedium() *brokenMedium {
	return &brokenMedium{MemoryMedium: NewMemoryMedium()}
}

func (m *brokenMedium) Break(broken bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broken = broken
}

func (m *brokenMedium) Put(key string, data []byte) error {
	m.mu.Lock()
	broken := m.broken
	m.mu.Unlock()
	if broken {
		return errDiskFull
	}
	return m.MemoryMedium.Put(key, data)
}

// demoAccount is the account returned by the mocked backend.
func demoAccount() Account {
	return Account{ID: "1", DisplayName: "John Doe", Email: "test@app.com", AccountID: "ACC-2024-001", Balance: M(10000, "USD")}
}

// recorder collects the events published on a Hub.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func record(h *Hub) *recorder {
	r := new(recorder)
	h.Subscribe(func(e Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	return r
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []EventKind
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
