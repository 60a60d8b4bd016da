package warden

import (
	"xdao.co/warden/account"
	"xdao.co/warden/authn"
	"xdao.co/warden/identity"
)

// Authorize is the operation-authorization fast path: it decides whether sig
// authorizes the raw 32-byte operation digest for the account's current
// owner, after wrapping it in the fixed envelope. Only the configured entry
// point may call it; any other caller fails with NotEntryPoint. An invalid
// signature is a Rejected decision, not an error.
func (s *Service) Authorize(acct, caller identity.Identity, dig [32]byte, sig []byte) (authn.Decision, error) {
	if caller.IsZero() || caller != s.entryPoint {
		return authn.Rejected, account.NewError(account.KindAuthorization, account.ReasonNotEntryPoint,
			"caller is not the entry point")
	}
	st, err := s.store.Get(acct)
	if err != nil {
		return authn.Rejected, err
	}
	d := s.validator.AuthorizeOperation(st.Owner, dig, sig)
	s.log.Debug().
		Str("account", acct.String()).
		Str("decision", d.String()).
		Msg("operation authorization")
	return d, nil
}

// CheckSignature reports whether sig is a valid signature by the account's
// current owner over the digest exactly as supplied. No envelope is applied
// and no caller gate exists; this is the public verification entrypoint.
func (s *Service) CheckSignature(acct identity.Identity, dig [32]byte, sig []byte) (bool, error) {
	st, err := s.store.Get(acct)
	if err != nil {
		return false, err
	}
	return s.validator.Check(st.Owner, dig, sig), nil
}

// AuthorizeUpgrade grants a code-upgrade request for the account. The
// implementation reference is forwarded opaquely: passing the
// owner-or-entry-point gate is the only check, and the grant is recorded as
// an event.
func (s *Service) AuthorizeUpgrade(acct, caller, implementation identity.Identity) error {
	st, err := s.store.Get(acct)
	if err != nil {
		return err
	}
	if err := requireOwnerOrEntryPoint(st, caller, s.entryPoint); err != nil {
		return err
	}

	s.emit(newUpgradeAuthorizedEvent(st, implementation))
	s.log.Info().
		Str("account", st.ID.String()).
		Str("implementation", implementation.String()).
		Msg("upgrade authorized")
	return nil
}

// ExecuteBatch forwards a sequence of opaque calls through the executor on
// the account's behalf. Calls run in input order; the first executor failure
// stops the batch and is reported on that call's result rather than as an
// operation error. Account state is read for the owner-or-entry-point gate
// and never mutated.
func (s *Service) ExecuteBatch(acct, caller identity.Identity, calls []Call) ([]CallResult, error) {
	st, err := s.store.Get(acct)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrEntryPoint(st, caller, s.entryPoint); err != nil {
		return nil, err
	}
	if len(calls) > 0 && s.executor == nil {
		return nil, account.WrapInternal("warden: no call executor configured", nil)
	}

	results := make([]CallResult, 0, len(calls))
	completed := 0
	for _, c := range calls {
		out, err := s.executor.Execute(acct, c.Target, c.Data)
		results = append(results, CallResult{Target: c.Target, Output: out, Err: err})
		if err != nil {
			break
		}
		completed++
	}

	s.emit(newBatchExecutedEvent(st, len(calls), completed))
	s.log.Info().
		Str("account", st.ID.String()).
		Int("calls", len(calls)).
		Int("completed", completed).
		Msg("batch executed")
	return results, nil
}
