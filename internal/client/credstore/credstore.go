// Package credstore persists the client's bearer credential across restarts.
package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Credential is the stored unit of authentication proof: an opaque bearer
// token plus the role claim the server issued with it. The client never
// expires it locally; it lives until logout or server rejection.
type Credential struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Store is durable key-value persistence for exactly one credential. All
// three operations always succeed from the caller's point of view: a failing
// medium degrades to in-memory behavior rather than surfacing errors, so the
// session layer can treat persistence as infallible.
type Store interface {
	Save(Credential)
	Load() *Credential
	Clear()
}

// DefaultPath returns the conventional credential location under the user's
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "okapi", "credential.json")
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFile builds a file-backed store at path. When the directory cannot be
// created or written, it degrades to a memory store so boot never fails on a
// read-only medium.
func NewFile(path string) Store {
	if path == "" {
		return NewMemory()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return NewMemory()
	}
	probe := filepath.Join(filepath.Dir(path), ".probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return NewMemory()
	}
	os.Remove(probe)
	return &fileStore{path: path}
}

func (s *fileStore) Save(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(c)
	if err != nil {
		return
	}
	// Atomic replace so a crash mid-write never leaves a torn credential.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
	}
}

func (s *fileStore) Load() *Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var c Credential
	if err := json.Unmarshal(payload, &c); err != nil || c.Token == "" {
		return nil
	}
	return &c
}

func (s *fileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	os.Remove(s.path)
}

type memoryStore struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemory builds a process-local store with the same contract. Also the
// degraded mode of NewFile.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Save(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &c
}

func (s *memoryStore) Load() *Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil
	}
	c := *s.cred
	return &c
}

func (s *memoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
}
