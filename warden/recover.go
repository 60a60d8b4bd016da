package warden

import (
	"xdao.co/warden/account"
	"xdao.co/warden/identity"
)

// Recover runs one guardian-quorum recovery attempt: guardians and sigs are
// parallel arrays of voter identities and their signatures over the
// recovery digest for newOwner. On quorum the ownership transfer is
// immediate and single-step. The distinct valid vote count is returned even
// when the attempt fails, so callers can observe how far short it fell.
func (s *Service) Recover(acct, newOwner identity.Identity, guardians []identity.Identity, sigs [][]byte) (int, *account.State, error) {
	var votes int
	var prev identity.Identity
	st, err := s.mutate(acct, func(st *account.State) error {
		prev = st.Owner
		n, err := s.coord.Execute(st, s.scheme(acct), newOwner, guardians, sigs)
		votes = n
		return err
	})
	if err != nil {
		return votes, nil, err
	}

	s.emit(newRecoveryExecutedEvent(st, prev, votes))
	s.log.Info().
		Str("account", st.ID.String()).
		Str("owner", st.Owner.String()).
		Str("previousOwner", prev.String()).
		Int("votes", votes).
		Int("threshold", st.Threshold).
		Msg("ownership recovered")
	return votes, st, nil
}
