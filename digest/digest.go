// Package digest implements the domain-separated message digests that bind
// warden signatures to one account instance on one network.
//
// A digest commits to the system name, scheme version, chain id, and account
// identity before the payload, so a signature captured in one context never
// verifies in another.
package digest

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"xdao.co/warden/identity"
)

// Frozen v1 domain constants. Signatures commit to these values; any change
// invalidates every previously issued signature.
const (
	SchemeName    = "xdao-warden"
	SchemeVersion = "1"

	// envelopePrefix forms the operation-authorization envelope together with
	// the 32-byte digest it wraps. The trailing "32" is the digest length.
	envelopePrefix = "\x19xdao-warden signed operation:\n32"

	// tagRecovery scopes recovery-vote digests.
	tagRecovery = "recover"
)

// Scheme binds digests to a network and an account instance.
type Scheme struct {
	ChainID uint64
	Account identity.Identity
}

// Message computes the domain-separated digest for a tagged payload:
//
//	keccak256(name || 0x00 || version || 0x00 || chainID(8, big-endian) ||
//	          account || tag || 0x00 || payload)
func (s Scheme) Message(tag string, payload []byte) [32]byte {
	var chain [8]byte
	binary.BigEndian.PutUint64(chain[:], s.ChainID)

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(SchemeName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(SchemeVersion))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(chain[:])
	_, _ = h.Write(s.Account[:])
	_, _ = h.Write([]byte(tag))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(payload)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Recovery computes the digest guardians sign to vote a new owner in.
func (s Scheme) Recovery(newOwner identity.Identity) [32]byte {
	return s.Message(tagRecovery, newOwner[:])
}

// Wrap applies the fixed operation-authorization envelope:
// keccak256(envelopePrefix || digest).
//
// Operation authorization verifies signatures over Wrap(digest); the direct
// signature check verifies the caller-supplied digest with no envelope.
func Wrap(digest [32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(envelopePrefix))
	_, _ = h.Write(digest[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
