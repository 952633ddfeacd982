package testutil

import (
	"testing"

	"github.com/nhle/todo-client/internal/store"
)

// NewTestLedger opens a print ledger on a private in-memory SQLite database
// and closes it when the test ends. Each call starts from an empty schema.
func NewTestLedger(t *testing.T) *store.SQLiteStore {
	t.Helper()

	ledger, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening test ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := ledger.Close(); err != nil {
			t.Errorf("closing test ledger: %v", err)
		}
	})
	return ledger
}
