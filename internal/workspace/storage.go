package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/deskswap/internal/platform"
)

const stateVersion = 1

var (
	// ErrStateNotFound is returned by Load when nothing has been saved yet.
	ErrStateNotFound = errors.New("workspace state not found")
	// ErrCorruptState matches any *CorruptStateError.
	ErrCorruptState = errors.New("workspace state is corrupt")
)

// CorruptStateError reports persisted state that cannot be decoded or that
// violates the model invariants.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corrupt workspace state %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("corrupt workspace state: %v", e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

// Persistence loads and saves the whole monitor collection.
type Persistence interface {
	Load() (Collection, error)
	Save(Collection) error
}

type stateFile struct {
	Version  int        `json:"version"`
	Monitors Collection `json:"monitors"`
}

// FileStorage persists the collection as a JSON document.
type FileStorage struct {
	path string
}

var _ Persistence = (*FileStorage)(nil)

// NewFileStorage returns storage backed by the file at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (s *FileStorage) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields ErrStateNotFound; an
// unreadable or invalid one yields a *CorruptStateError.
func (s *FileStorage) Load() (Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read workspace state: %w", err)
	}
	return decodeState(s.path, data)
}

// Save replaces the state file. The document is written to a temporary file
// in the same directory and renamed over the old one.
func (s *FileStorage) Save(c Collection) error {
	data, err := encodeState(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workspace state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workspace state: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to set state file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace workspace state: %w", err)
	}
	return nil
}

func encodeState(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	data, err := json.MarshalIndent(stateFile{Version: stateVersion, Monitors: c}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace state: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeState(path string, data []byte) (Collection, error) {
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}
	if state.Version > stateVersion {
		return nil, &CorruptStateError{Path: path, Err: fmt.Errorf("unsupported state version %d", state.Version)}
	}
	for _, m := range state.Monitors {
		if m == nil {
			continue
		}
		for _, ws := range m.Workspaces {
			if ws != nil && ws.Windows == nil {
				ws.Windows = []platform.WindowID{}
			}
		}
	}
	if err := Validate(state.Monitors); err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}
	return state.Monitors, nil
}

// MemoryStorage keeps the encoded state in memory. It goes through the same
// codec as FileStorage so round-trip behaviour matches.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

var _ Persistence = (*MemoryStorage)(nil)

// NewMemoryStorage returns empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() (Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrStateNotFound
	}
	return decodeState("", s.data)
}

func (s *MemoryStorage) Save(c Collection) error {
	data, err := encodeState(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// SetRaw replaces the stored bytes, for seeding corrupt or hand-written state.
func (s *MemoryStorage) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Raw returns a copy of the stored bytes.
func (s *MemoryStorage) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Saves returns how many times Save succeeded.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
