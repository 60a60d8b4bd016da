package main

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
	"xdao.co/warden/keys"
)

func mustKey(fill byte) *secp256k1.PrivateKey {
	seed := make([]byte, keys.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	priv, err := keys.PrivateKeyFromSeed(seed)
	if err != nil {
		panic(err)
	}
	return priv
}

func fillIdentity(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func main() {
	account := fillIdentity(0xAC)
	newOwner := fillIdentity(0x0B)
	scheme := digest.Scheme{ChainID: 7, Account: account}

	owner := mustKey(0x5A)
	guardians := []*secp256k1.PrivateKey{mustKey(0x21), mustKey(0x22), mustKey(0x23)}

	fmt.Printf("Chain-ID=%d\n", scheme.ChainID)
	fmt.Printf("Account=%s\n", account)
	fmt.Printf("New-Owner=%s\n", newOwner)
	fmt.Printf("Owner=%s\n", identity.FromPublicKey(owner.PubKey()))

	opDigest := scheme.Message("execute", []byte("vector payload"))
	fmt.Printf("Op-Digest=%s\n", hex.EncodeToString(opDigest[:]))
	fmt.Printf("Op-Signature-Raw=%s\n", hex.EncodeToString(keys.SignDigest(owner, opDigest)))
	fmt.Printf("Op-Signature-Enveloped=%s\n", hex.EncodeToString(keys.SignOperation(owner, opDigest)))

	recDigest := scheme.Recovery(newOwner)
	fmt.Printf("Recovery-Digest=%s\n", hex.EncodeToString(recDigest[:]))
	for i, g := range guardians {
		id := identity.FromPublicKey(g.PubKey())
		fmt.Printf("Guardian-%d=%s\n", i+1, id)
		fmt.Printf("Guardian-%d-ID=%s\n", i+1, identity.GuardianIDOf(id))
		fmt.Printf("Guardian-%d-Vote=%s\n", i+1, hex.EncodeToString(keys.SignRecoveryVote(g, scheme, newOwner)))
	}
}
