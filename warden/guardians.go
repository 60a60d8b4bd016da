package warden

import (
	"xdao.co/warden/account"
	"xdao.co/warden/identity"
)

// AddGuardians admits new guardians, direct identities plus resolved
// delegated keys, to the account's registry. Owner-only; the whole batch
// commits or nothing does.
func (s *Service) AddGuardians(acct, caller identity.Identity, guardians []identity.Identity, delegatedKeys []string) (*account.State, error) {
	all, err := s.resolveGuardians(guardians, delegatedKeys)
	if err != nil {
		return nil, err
	}

	st, err := s.mutate(acct, func(st *account.State) error {
		if err := requireOwner(st, caller); err != nil {
			return err
		}
		return st.AddGuardians(all)
	})
	if err != nil {
		return nil, err
	}

	s.emit(newGuardiansAddedEvent(st, len(all)))
	s.log.Info().
		Str("account", st.ID.String()).
		Int("count", st.Count).
		Int("threshold", st.Threshold).
		Msg("guardians added")
	return st, nil
}

// RemoveGuardians clears guardian registrations by registry key. Owner-only,
// batch-atomic.
func (s *Service) RemoveGuardians(acct, caller identity.Identity, gids []identity.GuardianID) (*account.State, error) {
	st, err := s.mutate(acct, func(st *account.State) error {
		if err := requireOwner(st, caller); err != nil {
			return err
		}
		return st.RemoveGuardians(gids)
	})
	if err != nil {
		return nil, err
	}

	s.emit(newGuardiansRemovedEvent(st, len(gids)))
	s.log.Info().
		Str("account", st.ID.String()).
		Int("count", st.Count).
		Int("threshold", st.Threshold).
		Msg("guardians removed")
	return st, nil
}

// IsGuardian reports whether gid is currently registered for the account.
func (s *Service) IsGuardian(acct identity.Identity, gid identity.GuardianID) (bool, error) {
	st, err := s.store.Get(acct)
	if err != nil {
		return false, err
	}
	return st.IsGuardian(gid), nil
}

// GuardianParams returns the account's current (count, threshold) pair.
// Repeated calls between mutations return identical values.
func (s *Service) GuardianParams(acct identity.Identity) (account.Params, error) {
	st, err := s.store.Get(acct)
	if err != nil {
		return account.Params{}, err
	}
	return st.Params(), nil
}
