package sqlite_test

import (
	"path/filepath"
	"testing"

	"xdao.co/warden/receipt"
	"xdao.co/warden/storage"
	"xdao.co/warden/storage/sqlite"
	"xdao.co/warden/storage/testkit"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "warden.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteConformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) storage.Store {
		return openStore(t)
	})
}

func TestReceiptArchiveRoundTrip(t *testing.T) {
	s := openStore(t)
	a := s.Receipts()

	body := []byte(`{"account":"0xaa","operation":"warden.recovery.executed"}`)
	id, err := a.Put(body)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !a.Has(id) {
		t.Fatalf("Has returned false after Put")
	}
	got, err := a.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("receipt bytes mismatch")
	}

	// Idempotent re-put of identical bytes.
	id2, err := a.Put(body)
	if err != nil {
		t.Fatalf("Put(2) failed: %v", err)
	}
	if id2 != id {
		t.Fatalf("Put not idempotent: %s vs %s", id, id2)
	}
}

func TestReceiptArchiveMissing(t *testing.T) {
	s := openStore(t)
	a := s.Receipts()

	id, err := receipt.ComputeCID([]byte("never stored"))
	if err != nil {
		t.Fatalf("ComputeCID failed: %v", err)
	}
	if a.Has(id) {
		t.Fatalf("Has returned true for missing receipt")
	}
	if _, err := a.Get(id); !receipt.IsNotFound(err) {
		t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warden.db")

	s, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := s.Receipts().Put([]byte("durable receipt"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if !s2.Receipts().Has(id) {
		t.Fatalf("receipt lost across reopen")
	}
}
