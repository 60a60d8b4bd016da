package identity

import (
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func testKey(t *testing.T, fill byte) *secp256k1.PrivateKey {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	return secp256k1.PrivKeyFromBytes(seed)
}

func TestFromPublicKey_Deterministic(t *testing.T) {
	priv := testKey(t, 0x5A)

	a := FromPublicKey(priv.PubKey())
	b := FromPublicKey(priv.PubKey())
	if a != b {
		t.Fatalf("same key produced different identities: %s vs %s", a, b)
	}
	if a.IsZero() {
		t.Fatalf("derived identity is zero")
	}
}

func TestFromPublicKey_DistinctKeys(t *testing.T) {
	a := FromPublicKey(testKey(t, 0x5A).PubKey())
	b := FromPublicKey(testKey(t, 0x11).PubKey())
	if a == b {
		t.Fatalf("distinct keys produced the same identity: %s", a)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	id := FromPublicKey(testKey(t, 0x5A).PubKey())

	parsed, err := Parse(id.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, id)
	}

	// Without the 0x prefix.
	parsed, err = Parse(strings.TrimPrefix(id.String(), "0x"))
	if err != nil {
		t.Fatalf("Parse without prefix: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch without prefix")
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := Parse("0x1234"); err == nil {
		t.Fatalf("expected error for short identity")
	}
	if _, err := Parse("zz" + strings.Repeat("00", Size-1)); err == nil {
		t.Fatalf("expected error for non-hex identity")
	}
}

func TestIdentity_Zero(t *testing.T) {
	var id Identity
	if !id.IsZero() {
		t.Fatalf("zero value not reported as zero")
	}
	if id != Zero {
		t.Fatalf("zero value differs from Zero")
	}
	if Zero.String() != "0x0000000000000000000000000000000000000000" {
		t.Fatalf("unexpected zero string: %s", Zero.String())
	}
}

func TestGuardianIDOf_Deterministic(t *testing.T) {
	id := FromPublicKey(testKey(t, 0x5A).PubKey())

	a := GuardianIDOf(id)
	b := GuardianIDOf(id)
	if a != b {
		t.Fatalf("same identity produced different guardian ids")
	}

	other := GuardianIDOf(FromPublicKey(testKey(t, 0x11).PubKey()))
	if a == other {
		t.Fatalf("distinct identities produced the same guardian id")
	}
}

func TestGuardianID_ParseRoundTrip(t *testing.T) {
	gid := GuardianIDOf(FromPublicKey(testKey(t, 0x5A).PubKey()))

	parsed, err := ParseGuardianID(gid.String())
	if err != nil {
		t.Fatalf("ParseGuardianID: %v", err)
	}
	if parsed != gid {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, gid)
	}

	if _, err := ParseGuardianID("0xabcd"); err == nil {
		t.Fatalf("expected error for short guardian id")
	}
}
