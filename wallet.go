package tracker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Options configure a Wallet.
type Options struct {
	Medium        Medium        // where state is persisted, required
	Authenticator Authenticator // required
	Fetcher       Fetcher       // required
	Sensor        Sensor        // optional, biometric unlock is unavailable without one
	Validator     *Validator    // optional, defaults to NewValidator()
	Logger        *zap.Logger   // optional
	Hub           *Hub          // optional, receives state transitions
}

// Wallet is the session-scoped application state: one session, its ledger,
// and the rules to move money between them.
//
// A Wallet is meant to be driven by a single caller, but Transfer is still
// serialized per account so that a transfer never validates against a balance
// that another transfer already changed.
type Wallet struct {
	store     *Store
	session   *Session
	ledger    *Ledger
	gate      *Gate
	validator *Validator
	log       *zap.Logger
	hub       *Hub

	mu    sync.Mutex
	locks map[string]*sync.Mutex // by account id
}

// NewWallet creates a Wallet from opts.
func NewWallet(opts Options) *Wallet {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	hub := opts.Hub
	if hub == nil {
		hub = new(Hub)
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewValidator()
	}
	store := NewStore(opts.Medium, log.Named("store"))
	return &Wallet{
		store:     store,
		session:   NewSession(opts.Authenticator, store, log.Named("session"), hub),
		ledger:    NewLedger(opts.Fetcher, store, log.Named("ledger"), hub),
		gate:      NewGate(opts.Sensor, log.Named("biometric")),
		validator: validator,
		log:       log,
		hub:       hub,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Hub returns the hub publishing this wallet's state transitions.
func (w *Wallet) Hub() *Hub { return w.hub }

// Session returns the wallet's session.
func (w *Wallet) Session() *Session { return w.session }

// Ledger returns the wallet's ledger.
func (w *Wallet) Ledger() *Ledger { return w.ledger }

// Store returns the wallet's store.
func (w *Wallet) Store() *Store { return w.store }

// Login starts a session from credentials.
func (w *Wallet) Login(ctx context.Context, c Credentials) (Account, error) {
	return w.session.Login(ctx, c)
}

// BiometricAvailable reports whether Unlock can be used on this device.
func (w *Wallet) BiometricAvailable() bool { return w.gate.IsAvailable() }

// Unlock re-establishes the saved session after a biometric challenge.
//
// A successful challenge without a saved session fails with
// ErrNoSavedSession; it is never turned into a fresh login.
func (w *Wallet) Unlock(ctx context.Context) (Account, error) {
	if _, err := w.gate.Authenticate(ctx); err != nil {
		return Account{}, err
	}
	return w.session.Resume()
}

// Logout ends the session. Saved state is kept.
func (w *Wallet) Logout(ctx context.Context) {
	w.session.Logout(ctx)
}

// Account returns the current account or ErrNoSession.
func (w *Wallet) Account() (Account, error) {
	a, ok := w.session.Current()
	if !ok {
		return Account{}, ErrNoSession
	}
	return a, nil
}

// History loads the ledger, cache first.
func (w *Wallet) History(ctx context.Context) ([]Entry, error) {
	return w.ledger.Load(ctx)
}

// Refresh drops the cached history and loads it again from the backend.
func (w *Wallet) Refresh(ctx context.Context) ([]Entry, error) {
	w.ledger.Invalidate()
	return w.ledger.Load(ctx)
}

// Receipt is the outcome of a committed transfer.
type Receipt struct {
	Entry    Entry
	Balance  Money                // balance after the transfer
	Warnings []*DurabilityWarning // the commit stands even when not empty
}

// Transfer validates req against the current balance and commits it: the
// balance is debited and the entry is prepended to the ledger, as one unit.
//
// The history is loaded first if it was not yet, so that the entry joins the
// backend history instead of replacing it. A validation failure leaves
// everything unchanged. Persistence failures after the commit are reported in
// Receipt.Warnings and never undo it.
func (w *Wallet) Transfer(ctx context.Context, req TransferRequest) (Receipt, error) {
	current, ok := w.session.Current()
	if !ok {
		return Receipt{}, ErrNoSession
	}
	lock := w.lockFor(current.ID)
	lock.Lock()
	defer lock.Unlock()

	// read again under the lock, a previous transfer may have committed.
	current, ok = w.session.Current()
	if !ok {
		return Receipt{}, ErrNoSession
	}
	entry, err := w.validator.Validate(req, current.Balance)
	if err != nil {
		return Receipt{}, err
	}
	if !w.ledger.Loaded() {
		// a first transfer must not become the whole saved history.
		if _, err := w.ledger.Load(ctx); err != nil {
			w.log.Warn("transfer before the history could be loaded", zap.Error(err))
		}
	}

	var r Receipt
	var warning *DurabilityWarning
	if err := w.session.UpdateBalance(entry.Amount); errors.As(err, &warning) {
		r.Warnings = append(r.Warnings, warning)
	} else if err != nil {
		return Receipt{}, err
	}
	if err := w.ledger.Append(entry); errors.As(err, &warning) {
		r.Warnings = append(r.Warnings, warning)
	}
	after, _ := w.session.Current()
	r.Entry, r.Balance = entry, after.Balance
	w.log.Info("transfer committed",
		zap.String("id", entry.ID),
		zap.String("amount", entry.Amount.String()),
		zap.String("balance", after.Balance.String()),
		zap.Int("warnings", len(r.Warnings)))
	return r, nil
}

func (w *Wallet) lockFor(accountID string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.locks[accountID]
	if !ok {
		l = new(sync.Mutex)
		w.locks[accountID] = l
	}
	return l
}
