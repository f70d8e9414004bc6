package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultTransactionsPath locates the entries in a Server response.
const DefaultTransactionsPath = "$.transactions"

// ClientConfig configures a Client.
type ClientConfig struct {
	URL              string        // base URL of the server, required
	TransactionsPath string        // JSONPath to the entry array, defaults to DefaultTransactionsPath
	Timeout          time.Duration // per request, defaults to 10s
}

// Client is a tracker.Authenticator and tracker.Fetcher talking to a Server,
// or to any service answering with the same documents.
//
// Calls go through a circuit breaker: after repeated transport or server
// failures it fails fast with gobreaker.ErrOpenState until the server had
// time to recover. Rejected credentials do not count as failures.
type Client struct {
	base string
	path string
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	log  *zap.Logger
}

// NewClient creates a Client. A nil logger discards logs.
func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	path := cfg.TransactionsPath
	if path == "" {
		path = DefaultTransactionsPath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base: strings.TrimRight(cfg.URL, "/"),
		path: path,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tracker-backend",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, tracker.ErrInvalidCredentials) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return c
}

// Login posts the credentials to /v1/login.
func (c *Client) Login(ctx context.Context, email, password string) (tracker.Account, error) {
	body, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return tracker.Account{}, err
	}
	var account tracker.Account
	_, err = c.cb.Execute(func() (any, error) {
		return nil, c.do(ctx, http.MethodPost, "/v1/login", body, &account)
	})
	if err != nil {
		return tracker.Account{}, err
	}
	return account, nil
}

// Logout posts to /v1/logout. Failures are logged.
func (c *Client) Logout(ctx context.Context) {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.do(ctx, http.MethodPost, "/v1/logout", nil, nil)
	})
	if err != nil {
		c.log.Warn("logout failed", zap.Error(err))
	}
}

// FetchAll gets /v1/transactions and decodes the entries found at the
// configured JSONPath. Amounts keep their exact decimal text.
func (c *Client) FetchAll(ctx context.Context) ([]tracker.Entry, error) {
	var doc any
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.do(ctx, http.MethodGet, "/v1/transactions", nil, &doc)
	})
	if err != nil {
		return nil, err
	}
	found, err := jsonpath.Get(c.path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot find transactions at %q: %w", c.path, err)
	}
	// re-encode the selected node, Entry has its own strict decoder.
	data, err := json.Marshal(found)
	if err != nil {
		return nil, err
	}
	var entries []tracker.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid transactions at %q: %w", c.path, err)
	}
	return entries, nil
}

// do sends one request and decodes a JSON response into out, if not nil.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("http", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		return tracker.ErrInvalidCredentials
	}
	if resp.StatusCode >= 300 {
		var e errorResponse
		// the body is optional, an undecodable one only loses the message.
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("cannot %s %s: %s: %s", method, path, resp.Status, e.Error)
		}
		return fmt.Errorf("cannot %s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	// keep numbers as text: amounts must not go through float64.
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("cannot decode %s %s: %w", method, path, err)
	}
	return nil
}
