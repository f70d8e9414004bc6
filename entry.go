package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether an entry adds money to the account or takes it away.
type Kind string

const (
	Credit Kind = "credit"
	Debit  Kind = "debit"
)

// ParseKind parses "credit" or "debit".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Credit, Debit:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown entry kind: %q", s)
	}
}

// Entry is one immutable, timestamped record of a credit or debit.
//
// Amount is always positive, the direction is given by Kind.
type Entry struct {
	ID        string
	Timestamp time.Time
	Title     string
	Amount    Money
	Kind      Kind
}

// NewEntry creates a new Entry.
func NewEntry(id string, ts time.Time, title string, amount Money, kind Kind) Entry {
	return Entry{ID: id, Timestamp: ts, Title: title, Amount: amount, Kind: kind}
}

// Signed returns the amount with a sign matching the entry's kind.
func (e Entry) Signed() Money {
	if e.Kind == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Equal reports whether both entries are the same record.
func (e Entry) Equal(f Entry) bool {
	return e.ID == f.ID &&
		e.Timestamp.Equal(f.Timestamp) &&
		e.Title == f.Title &&
		e.Amount.Equal(f.Amount) &&
		e.Kind == f.Kind
}

// MarshalJSON implements the json.Marshaler interface for Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("timestamp", e.Timestamp.UTC().Format(time.RFC3339Nano))
	w.Append("title", e.Title)
	w.Money("amount", e.Amount)
	w.Append("kind", e.Kind)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        string          `json:"id"`
		Timestamp time.Time       `json:"timestamp"`
		Title     string          `json:"title"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		Kind      string          `json:"kind"`
	}
	if err := decodeStrict(data, &temp); err != nil {
		return err
	}
	kind, err := ParseKind(temp.Kind)
	if err != nil {
		return err
	}
	if temp.ID == "" {
		return fmt.Errorf("entry has no id")
	}
	if temp.Currency == "" {
		temp.Currency = DefaultCurrency
	}
	*e = NewEntry(temp.ID, temp.Timestamp, temp.Title, M(temp.Amount, temp.Currency), kind)
	return nil
}

// sortNewestFirst sorts entries by timestamp, newest first. The sort is
// stable: entries with the same timestamp keep their relative order.
func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
