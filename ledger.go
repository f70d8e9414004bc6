package tracker

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Fetcher is the transaction backend.
type Fetcher interface {
	// FetchAll returns the account's whole transaction history.
	FetchAll(ctx context.Context) ([]Entry, error)
}

// Ledger is the cache-first list of entries, newest first.
//
// Once a non-empty history is persisted, the Fetcher is never called again
// unless the cache is explicitly invalidated.
type Ledger struct {
	fetcher Fetcher
	store   *Store
	key     string
	log     *zap.Logger
	hub     *Hub

	mu      sync.Mutex
	entries []Entry
	loaded  bool
}

// NewLedger creates an empty Ledger.
func NewLedger(fetcher Fetcher, store *Store, log *zap.Logger, hub *Hub) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{fetcher: fetcher, store: store, key: LedgerKey, log: log, hub: hub}
}

// Entries returns a copy of the in-memory entries, newest first.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Loaded reports whether the history was read in this process, from the cache
// or the Fetcher.
func (l *Ledger) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Load returns the entries, newest first.
//
// A non-empty persisted history is returned as is. Otherwise the entries are
// fetched and persisted; failing to persist them does not fail the load. If
// the fetch fails, the error matches ErrDataLoadFailed and the ledger is
// left empty.
func (l *Ledger) Load(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached := l.cached(); len(cached) > 0 {
		sortNewestFirst(cached)
		l.set(cached)
		return slices.Clone(l.entries), nil
	}

	fetched, err := l.fetcher.FetchAll(ctx)
	if err != nil {
		l.entries, l.loaded = nil, false
		l.log.Warn("cannot fetch transactions", zap.Error(err))
		return nil, ErrDataLoadFailed.with(err)
	}
	fetched = slices.Clone(fetched)
	sortNewestFirst(fetched)
	l.set(fetched)
	l.persist()
	return slices.Clone(l.entries), nil
}

// Append inserts e at the head of the ledger and persists the whole history.
//
// The entry is always kept in memory. If the history cannot be persisted the
// returned error is a *DurabilityWarning.
func (l *Ledger) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		// do not overwrite a history this process has not read yet.
		l.entries = l.cached()
		sortNewestFirst(l.entries)
		l.loaded = true
	}
	l.entries = slices.Insert(l.entries, 0, e)
	l.hub.Publish(Event{Kind: EventEntryAppended, Entries: []Entry{e}})
	if w := l.persist(); w != nil {
		return w
	}
	return nil
}

// Invalidate forgets the in-memory and persisted history, so that the next
// Load fetches it again.
func (l *Ledger) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries, l.loaded = nil, false
	l.store.Remove(l.key)
}

// cached returns the persisted history. Unreadable data is logged and
// treated as a cache miss.
func (l *Ledger) cached() []Entry {
	saved, _, err := Load[[]Entry](l.store, l.key)
	if err != nil {
		l.log.Warn("ignoring unreadable transaction cache", zap.Error(err))
		return nil
	}
	return saved
}

func (l *Ledger) set(entries []Entry) {
	l.entries, l.loaded = entries, true
	l.hub.Publish(Event{Kind: EventLedgerLoaded, Entries: slices.Clone(entries)})
}

func (l *Ledger) persist() *DurabilityWarning {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	if err := l.store.Save(l.key, entries); err != nil {
		w := &DurabilityWarning{Key: l.key, Err: err}
		l.log.Warn("transactions not persisted", zap.String("key", l.key), zap.Error(err))
		l.hub.warn(w)
		return w
	}
	return nil
}
