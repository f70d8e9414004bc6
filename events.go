package tracker

import "sync"

// EventKind identifies a state transition.
type EventKind int

const (
	EventSessionStarted EventKind = iota + 1
	EventSessionCleared
	EventBalanceChanged
	EventLedgerLoaded
	EventEntryAppended
	EventDurabilityWarning
)

func (k EventKind) String() string {
	switch k {
	case EventSessionStarted:
		return "session-started"
	case EventSessionCleared:
		return "session-cleared"
	case EventBalanceChanged:
		return "balance-changed"
	case EventLedgerLoaded:
		return "ledger-loaded"
	case EventEntryAppended:
		return "entry-appended"
	case EventDurabilityWarning:
		return "durability-warning"
	default:
		return "unknown"
	}
}

// Event describes a state transition. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Account Account            // session and balance events
	Entries []Entry            // ledger events; a single entry for EventEntryAppended
	Warning *DurabilityWarning // EventDurabilityWarning
}

// Hub fans out events to subscribers. The zero value is ready to use and a
// nil *Hub silently drops events.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive every published event, synchronously and
// in subscription order. fn runs on the publishing goroutine and must not call
// back into the publisher. The returned function cancels the subscription.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to all current subscribers.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	subs := append([]subscription(nil), h.subs...)
	h.mu.Unlock()
	for _, s := range subs {
		s.fn(e)
	}
}

func (h *Hub) warn(w *DurabilityWarning) {
	h.Publish(Event{Kind: EventDurabilityWarning, Warning: w})
}
