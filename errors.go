package tracker

import (
	"errors"
	"fmt"
)

// Class groups errors by the way a caller is expected to handle them.
type Class int

const (
	// ClassUnknown is the class of errors that are not tracker errors.
	ClassUnknown Class = iota
	// ClassValidation errors are caused by user input. Show them, do not retry.
	ClassValidation
	// ClassAuthentication errors come from credential or biometric checks.
	ClassAuthentication
	// ClassData errors come from loading or storing data.
	ClassData
)

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassAuthentication:
		return "authentication"
	case ClassData:
		return "data"
	default:
		return "unknown"
	}
}

// Error is a typed tracker error. Its Message is meant to be shown verbatim to
// the user. Two Errors match with errors.Is when they share the same Code,
// whatever their cause.
type Error struct {
	Class   Class
	Code    string
	Message string
	Err     error // optional cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a tracker error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// with returns a copy of e caused by err.
func (e *Error) with(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// Validation errors.
var (
	ErrInvalidEmail        = &Error{ClassValidation, "invalid_email", "Please enter a valid email address.", nil}
	ErrPasswordTooShort    = &Error{ClassValidation, "password_too_short", "Password must be at least 6 characters.", nil}
	ErrEmptyReceiver       = &Error{ClassValidation, "empty_receiver", "Please enter a receiver ID.", nil}
	ErrInvalidAmount       = &Error{ClassValidation, "invalid_amount", "Amount must be greater than zero.", nil}
	ErrAmountTooPrecise    = &Error{ClassValidation, "amount_too_precise", "Amount has more decimals than the currency allows.", nil}
	ErrInsufficientBalance = &Error{ClassValidation, "insufficient_balance", "Insufficient balance for this transfer.", nil}
)

// Authentication and biometric errors.
var (
	ErrInvalidCredentials   = &Error{ClassAuthentication, "invalid_credentials", "Invalid email or password.", nil}
	ErrNotAvailable         = &Error{ClassAuthentication, "biometric_not_available", "Biometric authentication is not available on this device.", nil}
	ErrUserCancelled        = &Error{ClassAuthentication, "user_cancelled", "Authentication was cancelled.", nil}
	ErrAuthenticationFailed = &Error{ClassAuthentication, "authentication_failed", "Biometric authentication failed.", nil}
	ErrNoSavedSession       = &Error{ClassAuthentication, "no_saved_session", "No saved session. Please login with credentials first.", nil}
	ErrNoSession            = &Error{ClassAuthentication, "no_session", "No active session. Please login first.", nil}
)

// Data errors.
var (
	ErrDataLoadFailed  = &Error{ClassData, "data_load_failed", "Failed to load transaction data.", nil}
	ErrSerialization   = &Error{ClassData, "serialization", "Failed to save data.", nil}
	ErrDeserialization = &Error{ClassData, "deserialization", "Failed to load data.", nil}
)

// ErrChallengeCancelled is returned by a Sensor when the user or the system
// dismissed the challenge.
var ErrChallengeCancelled = errors.New("challenge cancelled")

// ClassOf returns the class of the first tracker error in err's chain.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassUnknown
}

// DurabilityWarning reports that a mutation was applied in memory but could
// not be persisted. It is never fatal: the in-memory state stands.
type DurabilityWarning struct {
	Key string
	Err error
}

func (w *DurabilityWarning) Error() string {
	return fmt.Sprintf("changes to %q are not saved: %v", w.Key, w.Err)
}

func (w *DurabilityWarning) Unwrap() error { return w.Err }

// IsWarning reports whether err is (or wraps) a DurabilityWarning.
func IsWarning(err error) bool {
	var w *DurabilityWarning
	return errors.As(err, &w)
}
