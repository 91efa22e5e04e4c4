package models

import (
	"testing"

	"github.com/sanfx/clinc-app/shared"
	"go.uber.org/zap"
)

// NewTestStore opens a migrated sqlite store in a temporary directory that is removed
// when the test finishes.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(shared.DatabaseConfig{
		Driver: SQLITE_DRIVER,
		Sqlite: shared.SqliteConfig{PassPhrase: "passphrase", Dir: t.TempDir()},
	}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("could not open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("could not migrate test store: %v", err)
	}

	return store
}
