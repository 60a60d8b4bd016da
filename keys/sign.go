package keys

import (
	"crypto/ed25519"
	"errors"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
)

// SignDigest produces a compact recoverable signature over the digest exactly
// as supplied. Recovery votes and CheckSignature both take this raw form.
func SignDigest(priv *secp256k1.PrivateKey, dig [32]byte) []byte {
	return ecdsa.SignCompact(priv, dig[:], false)
}

// SignOperation signs under the operation envelope, the form Authorize
// verifies.
func SignOperation(priv *secp256k1.PrivateKey, dig [32]byte) []byte {
	wrapped := digest.Wrap(dig)
	return ecdsa.SignCompact(priv, wrapped[:], false)
}

// SignRecoveryVote signs one guardian's approval of newOwner for the account
// scoped by scheme.
func SignRecoveryVote(priv *secp256k1.PrivateKey, scheme digest.Scheme, newOwner identity.Identity) []byte {
	dig := scheme.Recovery(newOwner)
	return SignDigest(priv, dig)
}

// GenerateEd25519Delegate returns a new Ed25519 delegate keypair.
func GenerateEd25519Delegate(rand io.Reader) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand)
}

// SignEd25519Delegate signs a digest for an Ed25519 delegate; the result
// verifies against authn.Ed25519Delegate.
func SignEd25519Delegate(priv ed25519.PrivateKey, dig [32]byte) []byte {
	return ed25519.Sign(priv, dig[:])
}

// GenerateDilithium3Delegate returns a new Dilithium3 delegate keypair.
func GenerateDilithium3Delegate(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// SignDilithium3Delegate signs a digest for a Dilithium3 delegate; the result
// verifies against authn.Dilithium3Delegate.
func SignDilithium3Delegate(priv *mode3.PrivateKey, dig [32]byte) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("missing private key")
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, dig[:], sig)
	return sig, nil
}
