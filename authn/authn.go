// Package authn verifies signatures for warden principals.
//
// A principal authenticates along one of two paths: a key identity proves
// control of a secp256k1 key by signature recovery, and a delegated identity
// forwards the check to its own verification capability. Callers dispatch
// through Validator and never need to know which path applies.
package authn

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
)

// DigestSize is the width of every signed digest.
const DigestSize = 32

// CompactSignatureSize is the length of a recoverable secp256k1 signature:
// one header byte followed by R and S.
const CompactSignatureSize = 65

// Authenticator is the capability that decides whether a signature belongs to
// one principal. It has exactly two implementations: KeyAuthenticator and
// DelegatedAuthenticator.
type Authenticator interface {
	// Authenticate reports whether sig is a valid signature by the principal
	// over the digest exactly as supplied.
	Authenticate(dig [DigestSize]byte, sig []byte) bool
}

// KeyAuthenticator authenticates a plain key identity by signer recovery.
type KeyAuthenticator struct {
	ID identity.Identity
}

func (a KeyAuthenticator) Authenticate(dig [DigestSize]byte, sig []byte) bool {
	signer, err := RecoverSigner(dig, sig)
	if err != nil {
		return false
	}
	return signer == a.ID
}

// DelegatedAuthenticator authenticates a delegated identity by forwarding the
// check to the identity's DelegateVerifier.
type DelegatedAuthenticator struct {
	ID       identity.Identity
	Verifier DelegateVerifier
}

func (a DelegatedAuthenticator) Authenticate(dig [DigestSize]byte, sig []byte) bool {
	if a.Verifier == nil {
		return false
	}
	magic, err := a.Verifier.VerifySignature(dig, sig)
	if err != nil {
		return false
	}
	return magic == ValidMagic
}

// RecoverSigner recovers the Identity that produced a compact recoverable
// signature over dig. It fails on malformed signatures; it cannot tell a
// forged signature from a valid one by a different signer, so callers compare
// the result against the expected Identity.
func RecoverSigner(dig [DigestSize]byte, sig []byte) (identity.Identity, error) {
	if len(sig) != CompactSignatureSize {
		return identity.Zero, fmt.Errorf("authn: signature must be %d bytes, got %d", CompactSignatureSize, len(sig))
	}
	pub, _, err := ecdsa.RecoverCompact(sig, dig[:])
	if err != nil {
		return identity.Zero, fmt.Errorf("authn: recover signer: %w", err)
	}
	if pub == nil {
		return identity.Zero, errors.New("authn: recover signer: no public key")
	}
	return identity.FromPublicKey(pub), nil
}

// Validator dispatches signature checks over the two authentication paths.
// Delegates is optional; a nil directory means every identity is a key
// identity.
type Validator struct {
	Delegates DelegateDirectory
}

// AuthenticatorFor returns the capability that authenticates id: the
// identity's delegate when one is registered, otherwise key recovery.
func (v *Validator) AuthenticatorFor(id identity.Identity) Authenticator {
	if v != nil && v.Delegates != nil {
		if d, ok := v.Delegates.Delegate(id); ok {
			return DelegatedAuthenticator{ID: id, Verifier: d}
		}
	}
	return KeyAuthenticator{ID: id}
}

// Check reports whether sig is a valid signature by id over the digest
// exactly as supplied. No envelope is applied on this path.
func (v *Validator) Check(id identity.Identity, dig [DigestSize]byte, sig []byte) bool {
	if id.IsZero() {
		return false
	}
	return v.AuthenticatorFor(id).Authenticate(dig, sig)
}

// AuthorizeOperation decides whether sig authorizes an operation digest for
// owner. The digest is first wrapped in the fixed operation envelope; the
// signature is accepted when it recovers to owner over the wrapped digest, or
// when the owner's delegate accepts the wrapped digest.
//
// Rejection is a Decision value, never an error: this path runs at high
// volume under the relaying environment and expected rejections must not
// unwind.
func (v *Validator) AuthorizeOperation(owner identity.Identity, dig [DigestSize]byte, sig []byte) Decision {
	if owner.IsZero() {
		return Rejected
	}
	wrapped := digest.Wrap(dig)

	if signer, err := RecoverSigner(wrapped, sig); err == nil && signer == owner {
		return Accepted
	}
	if v != nil && v.Delegates != nil {
		if d, ok := v.Delegates.Delegate(owner); ok {
			if magic, err := d.VerifySignature(wrapped, sig); err == nil && magic == ValidMagic {
				return Accepted
			}
		}
	}
	return Rejected
}
