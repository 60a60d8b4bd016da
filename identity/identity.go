package identity

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// Size is the width of an Identity in bytes.
const Size = 20

// Identity is the fixed-width value naming a principal (an account, its owner,
// a guardian, or a delegate).
//
// The zero value is the null Identity. It is never a valid owner or guardian;
// callers reject it with IsZero before admitting a principal.
type Identity [Size]byte

// Zero is the null Identity.
var Zero Identity

// FromPublicKey derives the Identity for a secp256k1 public key: the low 20
// bytes of keccak-256 over the uncompressed point (x || y, 64 bytes).
func FromPublicKey(pub *secp256k1.PublicKey) Identity {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(pub.SerializeUncompressed()[1:])
	sum := h.Sum(nil)

	var id Identity
	copy(id[:], sum[len(sum)-Size:])
	return id
}

// Parse decodes a hex Identity string. A leading "0x" is accepted.
func Parse(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("identity: invalid hex: %w", err)
	}
	if len(b) != Size {
		return Zero, fmt.Errorf("identity: expected %d bytes, got %d", Size, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// MustParse is Parse for trusted, compile-time-known strings. It panics on error.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Bytes returns a copy of the raw identity bytes.
func (id Identity) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, id[:])
	return out
}

// IsZero reports whether id is the null Identity.
func (id Identity) IsZero() bool {
	return id == Zero
}
