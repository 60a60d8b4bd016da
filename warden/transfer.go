package warden

import (
	"xdao.co/warden/account"
	"xdao.co/warden/identity"
)

// ProposeTransfer stages newOwner as the pending successor. Owner-only; a
// later proposal replaces an earlier one.
func (s *Service) ProposeTransfer(acct, caller, newOwner identity.Identity) (*account.State, error) {
	st, err := s.mutate(acct, func(st *account.State) error {
		if err := requireOwner(st, caller); err != nil {
			return err
		}
		return st.ProposeTransfer(newOwner)
	})
	if err != nil {
		return nil, err
	}

	s.emit(newTransferProposedEvent(st))
	s.log.Info().
		Str("account", st.ID.String()).
		Str("pendingOwner", st.PendingOwner.String()).
		Msg("ownership transfer proposed")
	return st, nil
}

// AcceptTransfer completes the two-step transfer. Only the pending owner may
// accept; the ownership-changed event is emitted exactly once, after the
// commit.
func (s *Service) AcceptTransfer(acct, caller identity.Identity) (*account.State, error) {
	var prev identity.Identity
	st, err := s.mutate(acct, func(st *account.State) error {
		prev = st.Owner
		return st.Accept(caller)
	})
	if err != nil {
		return nil, err
	}

	s.emit(newTransferAcceptedEvent(st, prev))
	s.log.Info().
		Str("account", st.ID.String()).
		Str("owner", st.Owner.String()).
		Str("previousOwner", prev.String()).
		Msg("ownership transfer accepted")
	return st, nil
}
