package keys

import (
	"io"
	"testing"

	"xdao.co/warden/authn"
	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testAccount(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestSignOperationAuthorizes(t *testing.T) {
	priv, err := PrivateKeyFromSeed(testSeed(0x11))
	if err != nil {
		t.Fatalf("PrivateKeyFromSeed: %v", err)
	}
	owner := identity.FromPublicKey(priv.PubKey())

	scheme := digest.Scheme{ChainID: 7, Account: testAccount(0xAC)}
	dig := scheme.Message("op", []byte("payload"))

	v := &authn.Validator{}
	if got := v.AuthorizeOperation(owner, dig, SignOperation(priv, dig)); got != authn.Accepted {
		t.Fatalf("enveloped signature: got %s, want accepted", got)
	}

	// The raw form passes the raw check but never the enveloped one.
	raw := SignDigest(priv, dig)
	if !v.Check(owner, dig, raw) {
		t.Fatalf("raw signature failed the raw check")
	}
	if got := v.AuthorizeOperation(owner, dig, raw); got != authn.Rejected {
		t.Fatalf("raw signature: got %s, want rejected", got)
	}
}

func TestSignRecoveryVoteRecovers(t *testing.T) {
	priv, err := PrivateKeyFromSeed(testSeed(0x21))
	if err != nil {
		t.Fatalf("PrivateKeyFromSeed: %v", err)
	}
	guardian := identity.FromPublicKey(priv.PubKey())

	scheme := digest.Scheme{ChainID: 7, Account: testAccount(0xAC)}
	newOwner := testAccount(0x02)

	sig := SignRecoveryVote(priv, scheme, newOwner)
	signer, err := authn.RecoverSigner(scheme.Recovery(newOwner), sig)
	if err != nil {
		t.Fatalf("RecoverSigner: %v", err)
	}
	if signer != guardian {
		t.Fatalf("recovered %s, want %s", signer, guardian)
	}
}

func TestEd25519DelegateSignatureVerifies(t *testing.T) {
	pub, priv, err := GenerateEd25519Delegate(io.Reader(&deterministicReader{}))
	if err != nil {
		t.Fatalf("GenerateEd25519Delegate: %v", err)
	}

	dig := digest.Scheme{ChainID: 7, Account: testAccount(0xAC)}.Message("op", []byte("payload"))
	sig := SignEd25519Delegate(priv, dig)

	magic, err := authn.Ed25519Delegate{Pub: pub}.VerifySignature(dig, sig)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if magic != authn.ValidMagic {
		t.Fatalf("signature did not verify")
	}
}

func TestDilithium3DelegateSignatureVerifies(t *testing.T) {
	pub, priv, err := GenerateDilithium3Delegate(io.Reader(&deterministicReader{}))
	if err != nil {
		t.Fatalf("GenerateDilithium3Delegate: %v", err)
	}

	dig := digest.Scheme{ChainID: 7, Account: testAccount(0xAC)}.Message("op", []byte("payload"))
	sig, err := SignDilithium3Delegate(priv, dig)
	if err != nil {
		t.Fatalf("SignDilithium3Delegate: %v", err)
	}

	magic, err := authn.Dilithium3Delegate{Pub: pub}.VerifySignature(dig, sig)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if magic != authn.ValidMagic {
		t.Fatalf("signature did not verify")
	}

	if _, err := SignDilithium3Delegate(nil, dig); err == nil {
		t.Fatalf("expected error for missing private key")
	}
}
