package tracker

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Authenticator is the authentication backend.
type Authenticator interface {
	// Login returns the authoritative account for these credentials, or
	// fails with ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (Account, error)
	// Logout is fire-and-forget.
	Logout(ctx context.Context)
}

// Credentials are the user's login input.
type Credentials struct {
	Email    string `validate:"mailbox"`
	Password string `validate:"min=6"`
}

var mailbox = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var credentialsValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailbox.MatchString(fl.Field().String())
	})
	return v
}()

// Validate checks the email format first, then the password length.
func (c Credentials) Validate() error {
	err := credentialsValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	// errors are reported in field order, the first one wins.
	switch verrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Password":
		return ErrPasswordTooShort
	default:
		return err
	}
}

// SessionState is the lifecycle state of a Session.
type SessionState int

const (
	SessionInit SessionState = iota
	SessionActive
	SessionCleared
)

func (s SessionState) String() string {
	switch s {
	case SessionInit:
		return "init"
	case SessionActive:
		return "active"
	case SessionCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Session owns the currently authenticated Account.
//
// At most one Account is current. The persisted snapshot under the session key
// survives logout so that a later login recovers the balance history.
type Session struct {
	auth  Authenticator
	store *Store
	key   string
	log   *zap.Logger
	hub   *Hub

	mu      sync.RWMutex
	state   SessionState
	current *Account
}

// NewSession creates a Session in the init state.
func NewSession(auth Authenticator, store *Store, log *zap.Logger, hub *Hub) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{auth: auth, store: store, key: SessionKey, log: log, hub: hub}
}

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the current account, if any.
func (s *Session) Current() (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Account{}, false
	}
	return *s.current, true
}

// Login validates the credentials, authenticates them and starts a session.
//
// The backend always returns a starting identity, so a previously persisted
// account takes precedence: it carries the balance mutated by past transfers.
// The fresh account is persisted only when none was saved before.
func (s *Session) Login(ctx context.Context, c Credentials) (Account, error) {
	if err := c.Validate(); err != nil {
		return Account{}, err
	}
	fresh, err := s.auth.Login(ctx, c.Email, c.Password)
	if err != nil {
		return Account{}, err
	}

	saved, ok, err := Load[Account](s.store, s.key)
	if err != nil {
		s.log.Warn("ignoring unreadable saved session", zap.Error(err))
		ok = false
	}
	if ok {
		s.activate(saved)
		return saved, nil
	}
	if err := s.store.Save(s.key, fresh); err != nil {
		s.warn(err)
	}
	s.activate(fresh)
	return fresh, nil
}

// Restore reads the persisted account. It does not contact the backend and
// does not change the session.
func (s *Session) Restore() (Account, bool, error) {
	return Load[Account](s.store, s.key)
}

// Resume makes the persisted account the current session. It is meant to be
// called after a successful biometric re-assertion.
func (s *Session) Resume() (Account, error) {
	saved, ok, err := s.Restore()
	if err != nil {
		return Account{}, err
	}
	if !ok {
		return Account{}, ErrNoSavedSession
	}
	s.activate(saved)
	return saved, nil
}

// Logout calls the backend logout hook and clears the in-memory session.
// The persisted account is kept.
func (s *Session) Logout(ctx context.Context) {
	s.auth.Logout(ctx)
	s.mu.Lock()
	s.current = nil
	s.state = SessionCleared
	s.mu.Unlock()
	s.hub.Publish(Event{Kind: EventSessionCleared})
}

// UpdateBalance subtracts delta from the current balance and persists the
// account.
//
// The in-memory balance is always updated. If it cannot be persisted the
// returned error is a *DurabilityWarning.
func (s *Session) UpdateBalance(delta Money) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.current.Balance = s.current.Balance.Sub(delta)
	updated := *s.current
	s.mu.Unlock()

	s.hub.Publish(Event{Kind: EventBalanceChanged, Account: updated})
	if err := s.store.Save(s.key, updated); err != nil {
		return s.warn(err)
	}
	return nil
}

func (s *Session) activate(a Account) {
	s.mu.Lock()
	s.current = &a
	s.state = SessionActive
	s.mu.Unlock()
	s.log.Info("session started", zap.String("account", a.AccountID))
	s.hub.Publish(Event{Kind: EventSessionStarted, Account: a})
}

func (s *Session) warn(err error) *DurabilityWarning {
	w := &DurabilityWarning{Key: s.key, Err: err}
	s.log.Warn("session not persisted", zap.String("key", s.key), zap.Error(err))
	s.hub.warn(w)
	return w
}
