// Package backend provides the collaborators a tracker.Wallet runs against: a
// simulated backend for demos and tests, an HTTP server exposing any
// backend, and the HTTP client to reach it.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/tracker"
)

// Demo credentials accepted by Demo.
const (
	DemoEmail    = "test@app.com"
	DemoPassword = "123456"
)

// DemoAccount returns the account Demo logs into.
func DemoAccount() tracker.Account {
	return tracker.Account{
		ID:          "1",
		DisplayName: "John Doe",
		Email:       DemoEmail,
		AccountID:   "ACC-2024-001",
		Balance:     tracker.M(10000, tracker.DefaultCurrency),
	}
}

// Demo is an in-process Authenticator accepting only the demo credentials.
type Demo struct {
	Latency  time.Duration // simulated round trip, zero for none
	Currency string        // of the demo account, tracker.DefaultCurrency if empty
}

// Login returns DemoAccount for the demo credentials and fails with
// tracker.ErrInvalidCredentials otherwise.
func (d *Demo) Login(ctx context.Context, email, password string) (tracker.Account, error) {
	if err := wait(ctx, d.Latency); err != nil {
		return tracker.Account{}, err
	}
	if email != DemoEmail || password != DemoPassword {
		return tracker.Account{}, tracker.ErrInvalidCredentials
	}
	a := DemoAccount()
	if d.Currency != "" {
		a.Balance = tracker.M(a.Balance.Decimal(), d.Currency)
	}
	return a, nil
}

// Logout does nothing.
func (d *Demo) Logout(context.Context) {}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SensorMode is the scripted outcome of a SimulatedSensor.
type SensorMode string

const (
	SensorAccept      SensorMode = "accept"
	SensorReject      SensorMode = "reject"
	SensorCancel      SensorMode = "cancel"
	SensorUnavailable SensorMode = "unavailable"
)

// ParseSensorMode parses one of accept, reject, cancel or unavailable.
func ParseSensorMode(s string) (SensorMode, error) {
	switch m := SensorMode(s); m {
	case SensorAccept, SensorReject, SensorCancel, SensorUnavailable:
		return m, nil
	default:
		return "", fmt.Errorf("invalid sensor mode %q: want accept, reject, cancel or unavailable", s)
	}
}

// SimulatedSensor is a tracker.Sensor that always gives the same answer.
// The zero value is unavailable.
type SimulatedSensor struct {
	Mode SensorMode
}

// Available is false only for SensorUnavailable and the zero value.
func (s SimulatedSensor) Available() bool {
	return s.Mode != "" && s.Mode != SensorUnavailable
}

// Challenge answers according to Mode.
func (s SimulatedSensor) Challenge(ctx context.Context, reason string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	switch s.Mode {
	case SensorAccept:
		return true, nil
	case SensorReject:
		return false, nil
	case SensorCancel:
		return false, tracker.ErrChallengeCancelled
	default:
		return false, fmt.Errorf("sensor %q cannot run a challenge", s.Mode)
	}
}
