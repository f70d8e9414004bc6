package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"go.uber.org/zap"
)

// Well-known keys of the persisted state.
const (
	SessionKey = "session" // one Account
	LedgerKey  = "ledger"  // one array of Entry
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store is a thin typed layer over a Medium. Values are persisted as JSON,
// without any schema version.
type Store struct {
	medium Medium
	log    *zap.Logger
}

// NewStore creates a Store writing into medium. A nil logger discards logs.
func NewStore(medium Medium, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{medium: medium, log: log}
}

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}

// Save writes value under key, overwriting any prior value.
//
// If value cannot be encoded Save fails with ErrSerialization and the prior
// value is left intact.
func (s *Store) Save(key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerialization.with(err)
	}
	if err := s.medium.Put(key, data); err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	s.log.Debug("saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Remove deletes key. It is idempotent and never fails: medium errors are
// logged.
func (s *Store) Remove(key string) {
	if err := checkKey(key); err != nil {
		s.log.Warn("remove ignored", zap.Error(err))
		return
	}
	if err := s.medium.Delete(key); err != nil {
		s.log.Warn("cannot remove record", zap.String("key", key), zap.Error(err))
	}
}

// raw returns the bytes stored under key, or false if the key was never written.
func (s *Store) raw(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := s.medium.Get(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot load %q: %w", key, err)
	}
	return data, true, nil
}

// Load reads the value stored under key as a T.
//
// It returns false if the key was never written. If bytes exist but cannot be
// decoded as a T it fails with ErrDeserialization; a schema mismatch is never
// reported as absent.
func Load[T any](s *Store, key string) (v T, ok bool, err error) {
	data, ok, err := s.raw(key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := decodeStrict(data, &v); err != nil {
		var zero T
		return zero, false, ErrDeserialization.with(fmt.Errorf("%q as %T: %w", key, zero, err))
	}
	return v, true, nil
}
