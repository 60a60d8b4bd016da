package receipt_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/warden/receipt"
)

// newArchive constructs a fresh, empty archive for a test.
type newArchive func(t *testing.T) receipt.Archive

func runArchiveConformance(t *testing.T, construct newArchive) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		a := construct(t)
		want := []byte(`{"account":"0xaa","operation":"warden.account.created"}`)

		id, err := a.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := receipt.ComputeCID(want)
		if err != nil {
			t.Fatalf("ComputeCID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := a.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		a := construct(t)
		b := []byte("same bytes")

		id1, err := a.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := a.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		a := construct(t)
		b := []byte("missing")
		id, err := receipt.ComputeCID(b)
		if err != nil {
			t.Fatalf("ComputeCID failed: %v", err)
		}

		if a.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := a.Get(id); !receipt.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := a.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !a.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		a := construct(t)
		var undef cid.Cid
		if a.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := a.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}

func TestDirArchiveConformance(t *testing.T) {
	runArchiveConformance(t, func(t *testing.T) receipt.Archive {
		a, err := receipt.NewDir(t.TempDir())
		if err != nil {
			t.Fatalf("NewDir failed: %v", err)
		}
		return a
	})
}

func TestMemArchiveConformance(t *testing.T) {
	runArchiveConformance(t, func(t *testing.T) receipt.Archive {
		return receipt.NewMem()
	})
}

func TestDirArchiveRejectsTamperedContent(t *testing.T) {
	dir := t.TempDir()
	a, err := receipt.NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	id, err := a.Put([]byte("original bytes"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored object on disk, then expect Get to refuse it.
	s := id.String()
	path := filepath.Join(dir, s[:2], s)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := os.WriteFile(path, []byte("tampered bytes!"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	if _, err := a.Get(id); err != receipt.ErrCIDMismatch {
		t.Fatalf("Get(tampered) = %v, want ErrCIDMismatch", err)
	}
}

func TestDirArchiveListSortedAndSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := receipt.NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	want := make(map[cid.Cid]bool)
	for _, payload := range []string{"first", "second", "third"} {
		id, err := a.Put([]byte(payload))
		if err != nil {
			t.Fatalf("Put(%q) failed: %v", payload, err)
		}
		want[id] = true
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a receipt"), 0o644); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}

	ids, err := a.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("List returned %d CIDs, want %d", len(ids), len(want))
	}
	for i, id := range ids {
		if !want[id] {
			t.Fatalf("List returned unexpected CID %s", id)
		}
		if i > 0 && ids[i-1].String() >= id.String() {
			t.Fatalf("List not sorted: %s before %s", ids[i-1], id)
		}
	}
}

func TestReplicatingArchiveWritesAll(t *testing.T) {
	m1 := receipt.NewMem()
	m2 := receipt.NewMem()
	r := receipt.ReplicatingArchive{Backends: []receipt.NamedArchive{
		{Name: "primary", Archive: m1},
		{Name: "mirror", Archive: m2},
	}}

	payload := []byte("replicated receipt")
	id, perBackend, err := r.PutAll(payload)
	if err != nil {
		t.Fatalf("PutAll failed: %v", err)
	}
	if len(perBackend) != 2 {
		t.Fatalf("perBackend = %v, want 2 entries", perBackend)
	}
	if !m1.Has(id) || !m2.Has(id) {
		t.Fatalf("payload missing from a backend")
	}
}

func TestReplicatingArchiveReadFallsBack(t *testing.T) {
	m1 := receipt.NewMem()
	m2 := receipt.NewMem()
	r := receipt.ReplicatingArchive{Backends: []receipt.NamedArchive{
		{Name: "primary", Archive: m1},
		{Name: "mirror", Archive: m2},
	}}

	// Present only in the second backend.
	payload := []byte("only in mirror")
	id, err := m2.Put(payload)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("fallback read mismatch")
	}
	if !r.Has(id) {
		t.Fatalf("Has should see mirror content")
	}
}

func TestReplicatingArchiveMissingEverywhere(t *testing.T) {
	r := receipt.ReplicatingArchive{Backends: []receipt.NamedArchive{
		{Name: "a", Archive: receipt.NewMem()},
		{Name: "b", Archive: receipt.NewMem()},
	}}
	id, err := receipt.ComputeCID([]byte("absent"))
	if err != nil {
		t.Fatalf("ComputeCID failed: %v", err)
	}
	if _, err := r.Get(id); !receipt.IsNotFound(err) {
		t.Fatalf("Get = %v, want ErrNotFound", err)
	}
}
