package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Medium is durable string-keyed byte storage.
//
// Get must return an error matching fs.ErrNotExist when the key was never
// written. Delete of an absent key is not an error.
type Medium interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// FileMedium stores each key as a "<key>.json" file in a directory.
type FileMedium struct {
	dir string
}

// NewFileMedium returns a FileMedium rooted at dir. The directory is created
// on the first write.
func NewFileMedium(dir string) *FileMedium {
	return &FileMedium{dir: dir}
}

// Dir returns the directory where records are written.
func (m *FileMedium) Dir() string { return m.dir }

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

// Get reads the record stored under key.
func (m *FileMedium) Get(key string) ([]byte, error) {
	return os.ReadFile(m.path(key))
}

// Put writes data under key. The file is first written to a temporary file in
// the same directory then renamed, so readers never see a partial record.
func (m *FileMedium) Put(key string, data []byte) error {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return fmt.Errorf("cannot create data folder %q: %w", m.dir, err)
	}
	f, err := os.CreateTemp(m.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", key, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := os.Rename(tmp, m.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace %q: %w", key, err)
	}
	return nil
}

// Delete removes the record stored under key, if any.
func (m *FileMedium) Delete(key string) error {
	err := os.Remove(m.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryMedium keeps records in memory. It is safe for concurrent use.
type MemoryMedium struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryMedium returns an empty MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryMedium) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
