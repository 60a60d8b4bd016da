package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// GuardianIDSize is the width of a GuardianID in bytes.
const GuardianIDSize = 32

// guardianLabel is the frozen domain label for guardian registry keys.
// Changing it orphans every persisted guardian set.
const guardianLabel = "xdao-warden-guardian-v1"

// GuardianID is the one-way digest of an Identity under which a guardian is
// registered. Storing the digest rather than the raw Identity keeps stored
// guardian sets from being enumerated by identity value.
type GuardianID [GuardianIDSize]byte

// GuardianIDOf computes the registry key for an Identity:
// sha256(guardianLabel || 0x00 || identity).
func GuardianIDOf(id Identity) GuardianID {
	h := sha256.New()
	_, _ = h.Write([]byte(guardianLabel))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(id[:])

	var gid GuardianID
	copy(gid[:], h.Sum(nil))
	return gid
}

// ParseGuardianID decodes a hex GuardianID string. A leading "0x" is accepted.
func ParseGuardianID(s string) (GuardianID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return GuardianID{}, fmt.Errorf("identity: invalid guardian id hex: %w", err)
	}
	if len(b) != GuardianIDSize {
		return GuardianID{}, fmt.Errorf("identity: expected %d-byte guardian id, got %d", GuardianIDSize, len(b))
	}
	var gid GuardianID
	copy(gid[:], b)
	return gid, nil
}

func (g GuardianID) String() string {
	return "0x" + hex.EncodeToString(g[:])
}
