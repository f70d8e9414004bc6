package backend

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/tracker"
)

//go:embed seed.json
var seedJSON []byte

// Seed is a tracker.Fetcher serving a fixed history.
type Seed struct {
	Latency time.Duration // simulated round trip, zero for none
	// Currency, if set, replaces the currency of every entry. The amounts are
	// kept as is.
	Currency string
	data     []byte
}

// NewSeed returns a Seed over the built-in demo history.
func NewSeed() *Seed {
	return &Seed{data: seedJSON}
}

// ReadSeed returns a Seed over the JSON array of entries read from r.
func ReadSeed(r io.Reader) (*Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read seed: %w", err)
	}
	// fail now rather than on every fetch.
	var entries []tracker.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &Seed{data: data}, nil
}

// OpenSeed reads a seed file.
func OpenSeed(name string) (*Seed, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSeed(f)
}

// FetchAll decodes a fresh copy of the history, in file order.
func (s *Seed) FetchAll(ctx context.Context) ([]tracker.Entry, error) {
	if err := wait(ctx, s.Latency); err != nil {
		return nil, err
	}
	var entries []tracker.Entry
	dec := json.NewDecoder(bytes.NewReader(s.data))
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("cannot decode seed: %w", err)
	}
	if s.Currency != "" {
		for i, e := range entries {
			entries[i].Amount = tracker.M(e.Amount.Decimal(), s.Currency)
		}
	}
	return entries, nil
}
