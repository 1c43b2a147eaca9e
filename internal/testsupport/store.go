package testsupport

import (
	"testing"

	"sleuth/internal/config"
	"sleuth/internal/store"
)

// MustOpenJournal opens a run journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *store.Journal {
	t.Helper()

	journal, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		journal.Close()
	})
	return journal
}
