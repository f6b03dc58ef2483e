package storage

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "washlog.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'session'`).Scan(&name)
	if err != nil {
		t.Fatalf("session table must exist after migrations: %v", err)
	}
}

func TestOpenLeavesConnectionUsable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "washlog.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO session (id, payload) VALUES (1, '{}')`); err != nil {
		t.Fatalf("connection must stay open after migrations: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "washlog.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO session (id, payload) VALUES (1, '{}')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen with schema in place: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("reopen must keep existing rows, got %d", count)
	}
}
