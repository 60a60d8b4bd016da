package keys

import (
	"testing"

	"xdao.co/warden/identity"
)

func testSeed(fill byte) []byte {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	return seed
}

func TestDeriveGuardianSeedDeterministic(t *testing.T) {
	owner := make([]byte, SeedSize)
	for i := range owner {
		owner[i] = byte(i)
	}

	a, err := DeriveGuardianSeed(owner, "g1")
	if err != nil {
		t.Fatalf("DeriveGuardianSeed: %v", err)
	}
	b, err := DeriveGuardianSeed(owner, "g1")
	if err != nil {
		t.Fatalf("DeriveGuardianSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveGuardianSeed(owner, "g2")
	if err != nil {
		t.Fatalf("DeriveGuardianSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different labels to derive different seeds")
	}
}

func TestDeriveGuardianSeedRejectsBadInput(t *testing.T) {
	if _, err := DeriveGuardianSeed(make([]byte, 16), "g1"); err == nil {
		t.Fatalf("expected error for short owner seed")
	}
	if _, err := DeriveGuardianSeed(testSeed(0x01), ""); err == nil {
		t.Fatalf("expected error for empty label")
	}
	if _, err := DeriveGuardianSeed(testSeed(0x01), "bad/label"); err == nil {
		t.Fatalf("expected error for invalid label")
	}
}

func TestIdentityFromSeedStable(t *testing.T) {
	seed := testSeed(0x42)
	a, err := IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	b, err := IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	if a != b {
		t.Fatalf("identity not stable: %s vs %s", a, b)
	}
	if a.IsZero() {
		t.Fatalf("unexpected zero identity")
	}

	parsed, err := identity.Parse(a.String())
	if err != nil {
		t.Fatalf("Parse(%s): %v", a, err)
	}
	if parsed != a {
		t.Fatalf("identity does not round-trip through its string form")
	}
}

func TestGuardianIDFromSeedMatchesRegistry(t *testing.T) {
	seed := testSeed(0x23)
	id, err := IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	gid, err := GuardianIDFromSeed(seed)
	if err != nil {
		t.Fatalf("GuardianIDFromSeed: %v", err)
	}
	if gid != identity.GuardianIDOf(id) {
		t.Fatalf("guardian id mismatch")
	}
}

func TestPrivateKeyFromSeedRejectsBadInput(t *testing.T) {
	if _, err := PrivateKeyFromSeed(make([]byte, 16)); err == nil {
		t.Fatalf("expected error for short seed")
	}
	if _, err := PrivateKeyFromSeed(make([]byte, SeedSize)); err == nil {
		t.Fatalf("expected error for all-zero seed")
	}
}
