package tracker

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Sensor is the device biometric sensor.
type Sensor interface {
	// Available probes whether a biometric challenge can be run.
	Available() bool
	// Challenge runs one biometric challenge. It returns ErrChallengeCancelled
	// when the user or the system dismissed it.
	Challenge(ctx context.Context, reason string) (bool, error)
}

// ChallengeReason is the text shown by the sensor during a challenge.
const ChallengeReason = "Authenticate to access your account"

// Gate turns a Sensor into a yes/no re-authentication check.
//
// It holds no session state: a caller that gets true must still restore or
// already hold a Session.
type Gate struct {
	sensor Sensor
	log    *zap.Logger
}

// NewGate creates a Gate over sensor. A nil sensor is never available.
func NewGate(sensor Sensor, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{sensor: sensor, log: log}
}

// IsAvailable reports whether the device can run a biometric challenge.
func (g *Gate) IsAvailable() bool {
	return g.sensor != nil && g.sensor.Available()
}

// Authenticate runs a single challenge. It returns true only on an explicit
// positive assertion; every negative outcome is an error.
func (g *Gate) Authenticate(ctx context.Context) (bool, error) {
	if !g.IsAvailable() {
		return false, ErrNotAvailable
	}
	ok, err := g.sensor.Challenge(ctx, ChallengeReason)
	switch {
	case errors.Is(err, ErrChallengeCancelled), errors.Is(err, context.Canceled):
		return false, ErrUserCancelled
	case err != nil:
		g.log.Info("biometric challenge failed", zap.Error(err))
		return false, ErrAuthenticationFailed.with(err)
	case !ok:
		return false, ErrAuthenticationFailed
	}
	return true, nil
}
