package warden

import (
	"testing"

	"xdao.co/warden/account"
	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
)

// recoveryVotes signs the account's recovery digest for newOwner with the
// listed guardian keys.
func (e *env) recoveryVotes(newOwner identity.Identity, keys ...testKey) ([]identity.Identity, [][]byte) {
	dig := digest.Scheme{ChainID: 7, Account: e.acct}.Recovery(newOwner)
	ids := make([]identity.Identity, len(keys))
	sigs := make([][]byte, len(keys))
	for i, k := range keys {
		ids[i] = k.id
		sigs[i] = k.sign(dig)
	}
	return ids, sigs
}

func TestRecoverQuorumCommits(t *testing.T) {
	e := newEnv(t)
	successor := newTestKey(0x31)

	// A pending proposal must not survive a recovery.
	if _, err := e.svc.ProposeTransfer(e.acct, e.owner.id, newTestKey(0x32).id); err != nil {
		t.Fatalf("ProposeTransfer: %v", err)
	}
	e.buf.Reset()

	ids, sigs := e.recoveryVotes(successor.id, e.keys[0], e.keys[1], e.keys[2])
	votes, st, err := e.svc.Recover(e.acct, successor.id, ids, sigs)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if votes != 3 {
		t.Fatalf("votes = %d, want 3", votes)
	}
	if st.Owner != successor.id {
		t.Fatalf("owner = %s, want %s", st.Owner, successor.id)
	}
	if !st.PendingOwner.IsZero() {
		t.Fatalf("recovery left the pending proposal in place")
	}
	if st.Version != 3 {
		t.Fatalf("version = %d, want 3", st.Version)
	}

	persisted := e.mustGet(t)
	if persisted.Owner != successor.id {
		t.Fatalf("recovery not visible on reload")
	}

	ev := requireEvent(t, e.buf, EventTypeRecoveryExecuted)
	if ev.Attributes["votes"] != "3" || ev.Attributes["previousOwner"] != e.owner.id.String() {
		t.Fatalf("event attributes = %v", ev.Attributes)
	}
}

func TestRecoverBelowThresholdCommitsNothing(t *testing.T) {
	e := newEnv(t)
	successor := newTestKey(0x31)

	ids, sigs := e.recoveryVotes(successor.id, e.keys[0], e.keys[1])
	votes, _, err := e.svc.Recover(e.acct, successor.id, ids, sigs)
	requireReason(t, err, account.KindRecovery, account.ReasonRecoveryFailed)
	if votes != 2 {
		t.Fatalf("votes = %d, want 2 reported on failure", votes)
	}

	st := e.mustGet(t)
	if st.Owner != e.owner.id || st.Version != 1 {
		t.Fatalf("failed recovery committed: owner=%s version=%d", st.Owner, st.Version)
	}
	requireNoEvents(t, e.buf)
}

func TestRecoverUnregisteredGuardianAborts(t *testing.T) {
	e := newEnv(t)
	successor := newTestKey(0x31)
	stranger := newTestKey(0x66)

	ids, sigs := e.recoveryVotes(successor.id, e.keys[0], e.keys[1], e.keys[2], stranger)
	_, _, err := e.svc.Recover(e.acct, successor.id, ids, sigs)
	requireReason(t, err, account.KindValidation, account.ReasonUnregisteredGuardian)

	if st := e.mustGet(t); st.Owner != e.owner.id {
		t.Fatalf("aborted recovery changed the owner")
	}
}

func TestRecoverDigestBoundToConfiguredChain(t *testing.T) {
	e := newEnv(t)
	successor := newTestKey(0x31)

	// Votes signed for another network's digest carry zero weight here.
	foreign := digest.Scheme{ChainID: 8, Account: e.acct}.Recovery(successor.id)
	ids := []identity.Identity{e.keys[0].id, e.keys[1].id, e.keys[2].id}
	sigs := [][]byte{e.keys[0].sign(foreign), e.keys[1].sign(foreign), e.keys[2].sign(foreign)}

	votes, _, err := e.svc.Recover(e.acct, successor.id, ids, sigs)
	requireReason(t, err, account.KindRecovery, account.ReasonRecoveryFailed)
	if votes != 0 {
		t.Fatalf("votes = %d, want 0 for cross-chain signatures", votes)
	}
}

func TestRecoveredOwnerControlsTheAccount(t *testing.T) {
	e := newEnv(t)
	successor := newTestKey(0x31)

	ids, sigs := e.recoveryVotes(successor.id, e.keys[0], e.keys[1], e.keys[2])
	if _, _, err := e.svc.Recover(e.acct, successor.id, ids, sigs); err != nil {
		t.Fatalf("Recover: %v", err)
	}

	// The displaced owner is locked out; the successor passes the gates.
	_, err := e.svc.AddGuardians(e.acct, e.owner.id, []identity.Identity{newTestKey(0x72).id}, nil)
	requireReason(t, err, account.KindAuthorization, account.ReasonNotOwner)

	if _, err := e.svc.AddGuardians(e.acct, successor.id, []identity.Identity{newTestKey(0x72).id}, nil); err != nil {
		t.Fatalf("successor blocked from owner operations: %v", err)
	}

	dig := digest.Scheme{ChainID: 7, Account: e.acct}.Message("op", []byte("payload"))
	ok, err := e.svc.CheckSignature(e.acct, dig, successor.sign(dig))
	if err != nil || !ok {
		t.Fatalf("successor signature rejected: ok=%v err=%v", ok, err)
	}
	ok, err = e.svc.CheckSignature(e.acct, dig, e.owner.sign(dig))
	if err != nil || ok {
		t.Fatalf("displaced owner signature still accepted")
	}
}
