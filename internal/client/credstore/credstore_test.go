package credstore

import (
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]func() Store {
	t.Helper()
	dir := t.TempDir()
	return map[string]func() Store{
		"file":   func() Store { return NewFile(filepath.Join(dir, "credential.json")) },
		"memory": NewMemory,
	}
}

func TestSaveLoadClear(t *testing.T) {
	for name, build := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := build()

			if got := s.Load(); got != nil {
				t.Fatalf("fresh store should load nil, got %+v", got)
			}

			s.Save(Credential{Token: "tok-1", Role: "CUSTOMER"})
			got := s.Load()
			if got == nil || got.Token != "tok-1" || got.Role != "CUSTOMER" {
				t.Fatalf("load after save: got %+v", got)
			}

			// Save overwrites.
			s.Save(Credential{Token: "tok-2", Role: "ADMIN"})
			got = s.Load()
			if got == nil || got.Token != "tok-2" || got.Role != "ADMIN" {
				t.Fatalf("load after overwrite: got %+v", got)
			}

			s.Clear()
			if got := s.Load(); got != nil {
				t.Fatalf("load after clear should be nil, got %+v", got)
			}

			// Clearing an empty store is a no-op, not an error.
			s.Clear()
			if got := s.Load(); got != nil {
				t.Fatalf("double clear should stay nil, got %+v", got)
			}
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")

	NewFile(path).Save(Credential{Token: "persisted", Role: "CUSTOMER"})

	// A new store over the same path sees the credential, simulating a
	// process restart.
	got := NewFile(path).Load()
	if got == nil || got.Token != "persisted" {
		t.Fatalf("expected credential to survive reopen, got %+v", got)
	}
}

func TestUnwritableMediumDegradesToMemory(t *testing.T) {
	// A path under /dev/null can never be created; the store must still
	// satisfy the full contract in memory.
	s := NewFile("/dev/null/okapi/credential.json")

	s.Save(Credential{Token: "ephemeral", Role: "CUSTOMER"})
	if got := s.Load(); got == nil || got.Token != "ephemeral" {
		t.Fatalf("degraded store should hold credential in memory, got %+v", got)
	}
	s.Clear()
	if got := s.Load(); got != nil {
		t.Fatalf("degraded store should clear, got %+v", got)
	}
}
