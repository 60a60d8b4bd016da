// Package account holds the mutable state of one warden account and the rules
// that govern it: the guardian registry, the derived recovery threshold, and
// the two-step plus recovery-driven ownership transfers.
//
// State is one owned, versioned record threaded explicitly through every
// operation. Mutating methods are batch-atomic: they either apply completely
// or leave the receiver untouched. Callers that compose several mutations
// into one transaction work on a Copy and discard it on failure.
package account

import (
	"fmt"
	"time"

	"xdao.co/warden/identity"
)

// State is the complete persisted record of one account.
//
// Version counts committed transactions; stores use it for compare-and-set
// saves. Guardians is keyed by GuardianID so raw identities never reach
// storage.
type State struct {
	ID           identity.Identity
	Owner        identity.Identity
	PendingOwner identity.Identity // zero when no transfer is pending
	Guardians    map[identity.GuardianID]struct{}
	Count        int
	Threshold    int
	Version      uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates the state record for a fresh account. The owner must be a
// non-null identity distinct from the account's own identity. The guardian
// set starts empty with the threshold already derived.
func New(id, owner identity.Identity, now time.Time) (*State, error) {
	if id.IsZero() {
		return nil, newError(KindOwnership, ReasonInvalidOwner, "account identity must not be null")
	}
	if owner.IsZero() {
		return nil, newError(KindOwnership, ReasonInvalidOwner, "owner must not be null")
	}
	if owner == id {
		return nil, newError(KindOwnership, ReasonInvalidOwner, "account cannot own itself")
	}
	return &State{
		ID:        id,
		Owner:     owner,
		Guardians: make(map[identity.GuardianID]struct{}),
		Count:     0,
		Threshold: ThresholdFor(0),
		Version:   1,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Copy returns a deep copy. Operations mutate the copy and commit it as a
// whole, so a failed operation never leaves partial writes behind.
func (s *State) Copy() *State {
	out := *s
	out.Guardians = make(map[identity.GuardianID]struct{}, len(s.Guardians))
	for gid := range s.Guardians {
		out.Guardians[gid] = struct{}{}
	}
	return &out
}

// Params is the (count, threshold) snapshot returned by guardian-parameter
// reads. Threshold is maintained eagerly on every mutation, so reads are
// trivially repeatable.
type Params struct {
	Count     int
	Threshold int
}

func (s *State) Params() Params {
	return Params{Count: s.Count, Threshold: s.Threshold}
}

// CheckInvariants verifies the structural invariants of a state record.
// Stores call it when loading, so a corrupted row surfaces as an error
// instead of undefined behavior.
func (s *State) CheckInvariants() error {
	if s.ID.IsZero() {
		return WrapInternal("state: null account identity", nil)
	}
	if s.Owner.IsZero() {
		return WrapInternal("state: null owner", nil)
	}
	if s.Count != len(s.Guardians) {
		return WrapInternal(fmt.Sprintf("state: count %d does not match guardian set size %d", s.Count, len(s.Guardians)), nil)
	}
	if want := ThresholdFor(s.Count); s.Threshold != want {
		return WrapInternal(fmt.Sprintf("state: threshold %d, want %d for %d guardians", s.Threshold, want, s.Count), nil)
	}
	if !s.PendingOwner.IsZero() {
		if s.PendingOwner == s.Owner {
			return WrapInternal("state: pending owner equals owner", nil)
		}
		if s.PendingOwner == s.ID {
			return WrapInternal("state: pending owner equals account identity", nil)
		}
	}
	return nil
}
