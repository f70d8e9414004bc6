package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/tracker"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_Login(t *testing.T) {
	ctx := context.Background()
	d := new(Demo)

	a, err := d.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, "ACC-2024-001", a.AccountID)
	assert.Equal(t, "$10,000.00", a.Balance.String())

	_, err = d.Login(ctx, DemoEmail, "654321")
	assert.ErrorIs(t, err, tracker.ErrInvalidCredentials)
}

func TestDemo_Currency(t *testing.T) {
	ctx := context.Background()
	a, err := (&Demo{Currency: "EUR"}).Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(tracker.M(10000, "EUR")), "balance = %v", a.Balance)

	entries, err := (&Seed{Currency: "EUR", data: seedJSON}).FetchAll(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "EUR", e.Amount.Currency(), "entry %s", e.ID)
	}
	assert.Equal(t, "5000", entries[0].Amount.Decimal().String())
}

func TestDemo_LoginHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Demo{Latency: time.Hour}
	_, err := d.Login(ctx, DemoEmail, DemoPassword)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedSensor(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		mode      SensorMode
		available bool
		ok        bool
		err       error
	}{
		{SensorAccept, true, true, nil},
		{SensorReject, true, false, nil},
		{SensorCancel, true, false, tracker.ErrChallengeCancelled},
		{SensorUnavailable, false, false, nil},
	}
	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			s := SimulatedSensor{Mode: tc.mode}
			assert.Equal(t, tc.available, s.Available())
			if !tc.available {
				return
			}
			ok, err := s.Challenge(ctx, tracker.ChallengeReason)
			assert.Equal(t, tc.ok, ok)
			assert.ErrorIs(t, err, tc.err)
		})
	}
	assert.False(t, SimulatedSensor{}.Available())

	_, err := ParseSensorMode("maybe")
	assert.Error(t, err)
	m, err := ParseSensorMode("cancel")
	require.NoError(t, err)
	assert.Equal(t, SensorCancel, m)
}

func TestSeed_FetchAll(t *testing.T) {
	entries, err := NewSeed().FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "TXN001", entries[0].ID)
	assert.Equal(t, tracker.Credit, entries[0].Kind)

	// each fetch is a fresh copy.
	entries[0].Title = "changed"
	again, _ := NewSeed().FetchAll(context.Background())
	assert.Equal(t, "Salary Deposit", again[0].Title)
}

func TestReadSeed(t *testing.T) {
	s, err := ReadSeed(strings.NewReader(`[{"id":"A","timestamp":"2025-01-01T00:00:00Z","title":"x","amount":1,"kind":"debit"}]`))
	require.NoError(t, err)
	entries, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "USD", entries[0].Amount.Currency())

	_, err = ReadSeed(strings.NewReader(`{"id":"A"}`))
	assert.Error(t, err)
}

type failingFetcher struct{}

func (failingFetcher) FetchAll(context.Context) ([]tracker.Entry, error) {
	return nil, errors.New("database down")
}

func newTestClient(t *testing.T, fetcher tracker.Fetcher) *Client {
	t.Helper()
	srv := httptest.NewServer(NewServer(new(Demo), fetcher, nil))
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{URL: srv.URL}, nil)
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, NewSeed())

	a, err := c.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.True(t, a.Equal(DemoAccount()), "Login() = %+v", a)

	// rejected credentials never open the breaker.
	for range 5 {
		_, err = c.Login(ctx, DemoEmail, "wrong-password")
		assert.ErrorIs(t, err, tracker.ErrInvalidCredentials)
	}
	_, err = c.Login(ctx, DemoEmail, DemoPassword)
	assert.NoError(t, err)

	c.Logout(ctx)
}

func TestClient_FetchAll(t *testing.T) {
	c := newTestClient(t, NewSeed())
	got, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	want, _ := NewSeed().FetchAll(context.Background())
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "entry %d = %+v, want %+v", i, got[i], want[i])
	}
}

func TestClient_FetchAll_CustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"items":[{"id":"A","timestamp":"2025-01-01T00:00:00Z","title":"x","amount":12.5,"currency":"USD","kind":"credit"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL, TransactionsPath: "$.data.items"}, nil)
	got, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "$12.50", got[0].Amount.String())

	c = NewClient(ClientConfig{URL: srv.URL, TransactionsPath: "$.missing"}, nil)
	_, err = c.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestClient_FetchAll_KeepsPrecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[{"id":"A","timestamp":"2025-01-01T00:00:00Z","title":"x","amount":12345678901234567.89,"currency":"USD","kind":"credit"}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL}, nil)
	got, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12345678901234567.89", got[0].Amount.Decimal().String())
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL}, nil)
	for range 3 {
		_, err := c.FetchAll(context.Background())
		assert.Error(t, err)
	}
	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), calls.Load())
}

func TestServer_FetchFailure(t *testing.T) {
	c := newTestClient(t, failingFetcher{})
	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWallet_OverHTTP(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, NewSeed())
	w := tracker.NewWallet(tracker.Options{
		Medium:        tracker.NewMemoryMedium(),
		Authenticator: c,
		Fetcher:       c,
	})
	_, err := w.Login(ctx, tracker.Credentials{Email: DemoEmail, Password: DemoPassword})
	require.NoError(t, err)
	history, err := w.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TXN001", history[0].ID, "newest entry first")
}
