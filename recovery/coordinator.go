// Package recovery evaluates guardian-quorum recovery requests and drives the
// resulting forced ownership transfer.
package recovery

import (
	"fmt"

	"xdao.co/warden/account"
	"xdao.co/warden/authn"
	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
)

// Coordinator checks a recovery request against the account's guardian set
// and threshold.
//
// A request is evaluated atomically within one call: any failure leaves the
// account untouched. Votes are counted per distinct guardian, so the same
// guardian's signature supplied under two indices contributes one vote.
type Coordinator struct {
	Validator *authn.Validator
}

// Execute runs one recovery attempt against st.
//
// guardians and sigs are parallel arrays; a length mismatch fails with
// ArrayLengthMismatch. Every listed identity must currently be a registered
// guardian; one unregistered entry aborts the whole call with
// UnregisteredGuardian even if the remaining votes would meet quorum. An
// invalid signature from a registered guardian is not an error, it simply
// does not count. When fewer distinct valid votes than the current threshold
// remain, the call fails with RecoveryFailed.
//
// On quorum the ownership transfer is immediate and single-step; the
// collective signatures substitute for the successor's acceptance. The vote
// count is returned for observability either way.
func (c *Coordinator) Execute(st *account.State, sch digest.Scheme, newOwner identity.Identity, guardians []identity.Identity, sigs [][]byte) (int, error) {
	if len(guardians) != len(sigs) {
		return 0, account.NewError(account.KindValidation, account.ReasonArrayLengthMismatch,
			fmt.Sprintf("got %d guardian identities and %d signatures", len(guardians), len(sigs)))
	}

	dig := sch.Recovery(newOwner)

	voted := make(map[identity.GuardianID]struct{}, len(guardians))
	votes := 0
	for i, g := range guardians {
		gid := identity.GuardianIDOf(g)
		if !st.IsGuardian(gid) {
			return 0, account.NewError(account.KindValidation, account.ReasonUnregisteredGuardian,
				"guardian not registered: "+g.String())
		}
		if !c.Validator.Check(g, dig, sigs[i]) {
			continue
		}
		if _, dup := voted[gid]; dup {
			continue
		}
		voted[gid] = struct{}{}
		votes++
	}

	if votes < st.Threshold {
		return votes, account.NewError(account.KindRecovery, account.ReasonRecoveryFailed,
			fmt.Sprintf("%d valid votes, threshold %d", votes, st.Threshold))
	}

	if err := st.ForceTransfer(newOwner); err != nil {
		return votes, err
	}
	return votes, nil
}
