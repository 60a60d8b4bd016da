package account

import "xdao.co/warden/identity"

// checkNewOwner enforces the InvalidOwner conditions shared by both transfer
// paths: the successor must not be null, the current owner, or the account
// itself.
func (s *State) checkNewOwner(newOwner identity.Identity) error {
	if newOwner.IsZero() {
		return newError(KindOwnership, ReasonInvalidOwner, "new owner must not be the null identity")
	}
	if newOwner == s.Owner {
		return newError(KindOwnership, ReasonInvalidOwner, "new owner equals the current owner")
	}
	if newOwner == s.ID {
		return newError(KindOwnership, ReasonInvalidOwner, "account cannot own itself")
	}
	return nil
}

// ProposeTransfer stages newOwner as the pending successor. A later proposal
// replaces an earlier one (last proposal wins, no queue). A pending proposal
// has no expiry; it stands until accepted or superseded.
func (s *State) ProposeTransfer(newOwner identity.Identity) error {
	if err := s.checkNewOwner(newOwner); err != nil {
		return err
	}
	s.PendingOwner = newOwner
	return nil
}

// Accept completes the two-step transfer. Only the pending owner may accept;
// any other caller fails with NotPendingOwner and the state is unchanged.
func (s *State) Accept(caller identity.Identity) error {
	if s.PendingOwner.IsZero() || caller != s.PendingOwner {
		return newError(KindAuthorization, ReasonNotPendingOwner, "caller is not the pending owner")
	}
	s.Owner = s.PendingOwner
	s.PendingOwner = identity.Zero
	return nil
}

// ForceTransfer performs the immediate single-step transfer used by the
// recovery path: the guardian quorum's signatures substitute for the
// successor's explicit acceptance. The same InvalidOwner conditions apply,
// and any pending proposal is cleared.
func (s *State) ForceTransfer(newOwner identity.Identity) error {
	if err := s.checkNewOwner(newOwner); err != nil {
		return err
	}
	s.Owner = newOwner
	s.PendingOwner = identity.Zero
	return nil
}
