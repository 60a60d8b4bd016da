package account

import "xdao.co/warden/identity"

// AddGuardians admits a batch of guardian identities. Candidates are
// processed in order; for each one, the checks run in this sequence:
// DuplicateGuardian if its GuardianID is already present (including earlier
// in the same batch), NullGuardian if the identity is null, SelfGuardian if
// it equals the current owner. A failing candidate aborts the whole batch
// and leaves the receiver unchanged. The threshold is recomputed once after
// the batch.
func (s *State) AddGuardians(ids []identity.Identity) error {
	staged := make(map[identity.GuardianID]struct{}, len(s.Guardians)+len(ids))
	for gid := range s.Guardians {
		staged[gid] = struct{}{}
	}

	for _, id := range ids {
		gid := identity.GuardianIDOf(id)
		if _, ok := staged[gid]; ok {
			return newError(KindValidation, ReasonDuplicateGuardian, "guardian already registered: "+id.String())
		}
		if id.IsZero() {
			return newError(KindValidation, ReasonNullGuardian, "guardian must not be the null identity")
		}
		if id == s.Owner {
			return newError(KindValidation, ReasonSelfGuardian, "owner cannot be its own guardian")
		}
		staged[gid] = struct{}{}
	}

	s.Guardians = staged
	s.Count = len(staged)
	s.Threshold = ThresholdFor(s.Count)
	return nil
}

// RemoveGuardians clears a batch of guardian registrations by GuardianID.
// An id that is not registered (including one already removed earlier in the
// same batch) fails the whole batch with UnregisteredGuardian. The threshold
// is recomputed once after the batch.
func (s *State) RemoveGuardians(gids []identity.GuardianID) error {
	staged := make(map[identity.GuardianID]struct{}, len(s.Guardians))
	for gid := range s.Guardians {
		staged[gid] = struct{}{}
	}

	for _, gid := range gids {
		if _, ok := staged[gid]; !ok {
			return newError(KindValidation, ReasonUnregisteredGuardian, "guardian not registered: "+gid.String())
		}
		delete(staged, gid)
	}

	s.Guardians = staged
	s.Count = len(staged)
	s.Threshold = ThresholdFor(s.Count)
	return nil
}

// IsGuardian reports whether gid is currently registered. Pure read.
func (s *State) IsGuardian(gid identity.GuardianID) bool {
	_, ok := s.Guardians[gid]
	return ok
}
