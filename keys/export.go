package keys

import (
	"xdao.co/warden/identity"
)

// IdentityFromSeed returns the public identity controlled by a seed.
func IdentityFromSeed(seed []byte) (identity.Identity, error) {
	priv, err := PrivateKeyFromSeed(seed)
	if err != nil {
		return identity.Zero, err
	}
	return identity.FromPublicKey(priv.PubKey()), nil
}

// GuardianIDFromSeed returns the guardian registry key of the identity
// controlled by a seed.
func GuardianIDFromSeed(seed []byte) (identity.GuardianID, error) {
	id, err := IdentityFromSeed(seed)
	if err != nil {
		return identity.GuardianID{}, err
	}
	return identity.GuardianIDOf(id), nil
}
