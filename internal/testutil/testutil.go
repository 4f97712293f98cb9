package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"zonetrack/internal/db"
)

// OpenTestDB opens a private in-memory SQLite database with the schema applied.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.Open("sqlite", name)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}
