package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SeedSize is the length of every stored seed.
const SeedSize = 32

// PrivateKeyFromSeed interprets a stored seed as a secp256k1 private key.
func PrivateKeyFromSeed(seed []byte) (*secp256k1.PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	priv := secp256k1.PrivKeyFromBytes(seed)
	if priv.Key.IsZero() {
		return nil, errors.New("seed reduces to the zero scalar")
	}
	return priv, nil
}

// DeriveGuardianSeed deterministically derives a guardian seed from an owner
// seed and a label. Re-deriving after a seed restore yields the same guardian
// key, so one backed-up owner seed recovers the whole guardian set.
func DeriveGuardianSeed(ownerSeed []byte, label string) ([]byte, error) {
	if len(ownerSeed) != SeedSize {
		return nil, fmt.Errorf("owner seed must be %d bytes", SeedSize)
	}
	if err := CheckLabel(label); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(ownerSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("xdao-warden-kms-lite-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("guardian:"))
	_, _ = h.Write([]byte(label))
	sum := h.Sum(nil)
	if len(sum) < SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, SeedSize)
	copy(out, sum[:SeedSize])
	return out, nil
}
