package testutil

import (
	"testing"

	"github.com/nhle/project-tracker/internal/store"
)

// NewTestKV creates an in-memory SQLiteKV with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestKV(t *testing.T, opts ...store.Option) *store.SQLiteKV {
	t.Helper()

	kv, err := store.NewSQLiteKV(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return kv
}
