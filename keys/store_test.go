package keys

import (
	"os"
	"strings"
	"testing"
)

func TestStoreInitDeriveList(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	seed := testSeed(0x01)
	ownerID, path, err := s.InitOwnerKey("alice", seed, false)
	if err != nil {
		t.Fatalf("InitOwnerKey: %v", err)
	}
	wantID, err := IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	if ownerID != wantID {
		t.Fatalf("owner identity %s, want %s", ownerID, wantID)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%s): %v", path, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file mode %o, want 600", perm)
	}

	// A second init must not clobber the stored seed.
	if _, _, err := s.InitOwnerKey("alice", testSeed(0x02), false); err == nil {
		t.Fatalf("expected error re-initializing without overwrite")
	}
	if _, _, err := s.InitOwnerKey("alice", seed, true); err != nil {
		t.Fatalf("InitOwnerKey overwrite: %v", err)
	}

	gID, gGID, _, err := s.DeriveGuardianKey("alice", "g1", false)
	if err != nil {
		t.Fatalf("DeriveGuardianKey: %v", err)
	}
	gID2, gGID2, _, err := s.DeriveGuardianKey("alice", "g1", true)
	if err != nil {
		t.Fatalf("DeriveGuardianKey re-derive: %v", err)
	}
	if gID != gID2 || gGID != gGID2 {
		t.Fatalf("guardian derivation not deterministic")
	}
	if _, _, _, err := s.DeriveGuardianKey("alice", "g2", false); err != nil {
		t.Fatalf("DeriveGuardianKey g2: %v", err)
	}

	got, err := s.Identity("alice", "g1")
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if got != gID {
		t.Fatalf("stored guardian identity %s, want %s", got, gID)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "alice" {
		t.Fatalf("entries %+v, want one entry for alice", entries)
	}
	if strings.Join(entries[0].Guardians, ",") != "g1,g2" {
		t.Fatalf("guardians %v, want [g1 g2]", entries[0].Guardians)
	}
}

func TestLoadSeedPrecedence(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seed := testSeed(0x0A)
	if _, _, err := s.InitOwnerKey("bob", seed, false); err != nil {
		t.Fatalf("InitOwnerKey: %v", err)
	}

	hexSeed := strings.Repeat("0b", SeedSize)
	got, err := s.LoadSeed(hexSeed, "bob", "", "")
	if err != nil {
		t.Fatalf("LoadSeed hex: %v", err)
	}
	if string(got) != string(testSeed(0x0B)) {
		t.Fatalf("explicit hex seed did not win")
	}

	got, err = s.LoadSeed("", "bob", "", "")
	if err != nil {
		t.Fatalf("LoadSeed name: %v", err)
	}
	if string(got) != string(seed) {
		t.Fatalf("stored owner seed mismatch")
	}

	if _, _, _, err := s.DeriveGuardianKey("bob", "g1", false); err != nil {
		t.Fatalf("DeriveGuardianKey: %v", err)
	}
	derived, err := DeriveGuardianSeed(seed, "g1")
	if err != nil {
		t.Fatalf("DeriveGuardianSeed: %v", err)
	}
	got, err = s.LoadSeed("", "bob", "g1", "")
	if err != nil {
		t.Fatalf("LoadSeed guardian: %v", err)
	}
	if string(got) != string(derived) {
		t.Fatalf("stored guardian seed mismatch")
	}

	if _, err := s.LoadSeed("", "", "", ""); err == nil {
		t.Fatalf("expected error with no signer")
	}
}

func TestCheckNameRejectsUnsafeInput(t *testing.T) {
	for _, bad := range []string{"", "../escape", "a b", "dot.name", "sl/ash"} {
		if err := CheckName(bad); err == nil {
			t.Fatalf("CheckName(%q): expected error", bad)
		}
	}
	for _, ok := range []string{"alice", "Key-2", "under_score"} {
		if err := CheckName(ok); err != nil {
			t.Fatalf("CheckName(%q): %v", ok, err)
		}
	}
}

func TestInitOwnerKeyRandomSeed(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, _, err := s.InitOwnerKey("carol", nil, false)
	if err != nil {
		t.Fatalf("InitOwnerKey: %v", err)
	}
	if id.IsZero() {
		t.Fatalf("random init produced the zero identity")
	}
	got, err := s.Identity("carol", "")
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if got != id {
		t.Fatalf("stored identity %s, want %s", got, id)
	}
}
