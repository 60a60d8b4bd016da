package authn

import (
	"crypto/ed25519"
	"errors"
	"sync"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/warden/identity"
)

// ValidMagic is the frozen 4-byte verdict a delegate verifier returns to
// accept a signature. Any other value rejects. Changing it breaks every
// deployed delegate.
var ValidMagic = [4]byte{'W', 'D', 'N', '1'}

// DelegateVerifier is the verification capability of a delegated identity.
//
// VerifySignature returns ValidMagic to accept sig over dig; any other value
// is a clean rejection. An error reports malformed verifier state or input,
// not a rejection.
type DelegateVerifier interface {
	VerifySignature(dig [DigestSize]byte, sig []byte) ([4]byte, error)
}

// DelegateDirectory maps an Identity to its DelegateVerifier, when it has one.
type DelegateDirectory interface {
	Delegate(id identity.Identity) (DelegateVerifier, bool)
}

// MapDirectory is an in-memory DelegateDirectory, safe for concurrent use.
type MapDirectory struct {
	mu sync.RWMutex
	m  map[identity.Identity]DelegateVerifier
}

func NewMapDirectory() *MapDirectory {
	return &MapDirectory{m: make(map[identity.Identity]DelegateVerifier)}
}

// Bind registers (or replaces) the verifier for id.
func (d *MapDirectory) Bind(id identity.Identity, v DelegateVerifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m[id] = v
}

func (d *MapDirectory) Delegate(id identity.Identity) (DelegateVerifier, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.m[id]
	return v, ok
}

// Ed25519Delegate verifies delegate signatures with an Ed25519 public key.
type Ed25519Delegate struct {
	Pub ed25519.PublicKey
}

func (d Ed25519Delegate) VerifySignature(dig [DigestSize]byte, sig []byte) ([4]byte, error) {
	if len(d.Pub) != ed25519.PublicKeySize {
		return [4]byte{}, errors.New("authn: invalid ed25519 delegate key length")
	}
	if len(sig) != ed25519.SignatureSize {
		return [4]byte{}, nil
	}
	if !ed25519.Verify(d.Pub, dig[:], sig) {
		return [4]byte{}, nil
	}
	return ValidMagic, nil
}

// Dilithium3Delegate verifies delegate signatures with a Dilithium mode3
// public key.
type Dilithium3Delegate struct {
	Pub *mode3.PublicKey
}

func (d Dilithium3Delegate) VerifySignature(dig [DigestSize]byte, sig []byte) ([4]byte, error) {
	if d.Pub == nil {
		return [4]byte{}, errors.New("authn: missing dilithium3 delegate key")
	}
	if len(sig) != mode3.SignatureSize {
		return [4]byte{}, nil
	}
	if !mode3.Verify(d.Pub, dig[:], sig) {
		return [4]byte{}, nil
	}
	return ValidMagic, nil
}
