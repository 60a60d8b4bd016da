// Package warden exposes the account service: every externally visible
// operation on a recoverable account, serialized per account behind an
// exclusive lock and committed with compare-and-set saves.
//
// Each operation is one indivisible unit: load a consistent snapshot, mutate
// a deep copy, persist with the loaded version as the compare-and-set guard,
// and emit events only after the store accepted the commit. A failure at any
// point discards the copy; nothing partial is ever visible. Operations take
// no context because they are memory or local-disk bound and totally ordered
// per account.
package warden

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"xdao.co/warden/account"
	"xdao.co/warden/authn"
	"xdao.co/warden/digest"
	"xdao.co/warden/events"
	"xdao.co/warden/identity"
	"xdao.co/warden/recovery"
	"xdao.co/warden/storage"
)

// IdentityResolver maps a delegated key (an opaque reference such as a token
// name) to its current owning identity. It is consulted when guardians are
// supplied indirectly at creation or registration time.
type IdentityResolver interface {
	Resolve(key string) (identity.Identity, error)
}

// CallExecutor forwards one opaque external call on behalf of an account.
// The service never interprets targets or payloads.
type CallExecutor interface {
	Execute(acct identity.Identity, target identity.Identity, data []byte) ([]byte, error)
}

// Call is one opaque pass-through call inside a batch.
type Call struct {
	Target identity.Identity
	Data   []byte
}

// CallResult reports the outcome of one batch entry, in input order. Err is
// set on the entry that stopped the batch.
type CallResult struct {
	Target identity.Identity
	Output []byte
	Err    error
}

// Config carries the collaborators and policy for a Service.
//
// Store is required. Emitter defaults to a no-op, Now to the real UTC clock,
// and the zero Logger discards everything. Resolver and Executor may stay nil
// when delegated guardians and batched calls are not used; operations that
// need an absent collaborator fail with an internal error.
type Config struct {
	// ChainID scopes every signed digest to one network.
	ChainID uint64
	// EntryPoint is the execution-environment identity: the sole permitted
	// caller of Authorize, and accepted alongside the owner on the upgrade
	// and batch gates. Zero disables the entry-point paths.
	EntryPoint identity.Identity

	Store     storage.Store
	Resolver  IdentityResolver
	Delegates authn.DelegateDirectory
	Executor  CallExecutor
	Emitter   events.Emitter
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Service is the account service aggregate. Construct it with New; the zero
// value is not usable.
type Service struct {
	store      storage.Store
	resolver   IdentityResolver
	validator  *authn.Validator
	executor   CallExecutor
	emitter    events.Emitter
	chainID    uint64
	entryPoint identity.Identity
	log        zerolog.Logger
	nowFn      func() time.Time

	coord recovery.Coordinator

	mu    sync.Mutex
	locks map[identity.Identity]*sync.Mutex
}

// New validates cfg and builds the service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("warden: config requires a store")
	}
	s := &Service{
		store:      cfg.Store,
		resolver:   cfg.Resolver,
		validator:  &authn.Validator{Delegates: cfg.Delegates},
		executor:   cfg.Executor,
		emitter:    cfg.Emitter,
		chainID:    cfg.ChainID,
		entryPoint: cfg.EntryPoint,
		log:        cfg.Logger,
		nowFn:      cfg.Now,
		locks:      make(map[identity.Identity]*sync.Mutex),
	}
	if s.emitter == nil {
		s.emitter = events.NoopEmitter{}
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}
	s.coord = recovery.Coordinator{Validator: s.validator}
	return s, nil
}

// lockFor returns the exclusive lock serializing writes to one account,
// creating it on first use. Locks are never discarded; the set of accounts a
// process touches is bounded by its store.
func (s *Service) lockFor(acct identity.Identity) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[acct]
	if !ok {
		l = &sync.Mutex{}
		s.locks[acct] = l
	}
	return l
}

func (s *Service) now() time.Time {
	return s.nowFn().UTC()
}

func (s *Service) scheme(acct identity.Identity) digest.Scheme {
	return digest.Scheme{ChainID: s.chainID, Account: acct}
}

func (s *Service) emit(ev events.Event) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ev)
}

// mutate runs fn against a deep copy of the account's current record under
// its exclusive lock and commits the result with compare-and-set on the
// loaded version. On success the committed record is returned; on any error
// the copy is discarded and the store is untouched.
func (s *Service) mutate(acct identity.Identity, fn func(st *account.State) error) (*account.State, error) {
	l := s.lockFor(acct)
	l.Lock()
	defer l.Unlock()

	cur, err := s.store.Get(acct)
	if err != nil {
		return nil, err
	}
	next := cur.Copy()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Version = cur.Version + 1
	next.UpdatedAt = s.now()
	if err := s.store.Update(next, cur.Version); err != nil {
		return nil, err
	}
	return next, nil
}

// resolveGuardians combines direct guardian identities with the identities
// the resolver currently maps the delegated keys to. Direct identities keep
// their input order and resolved ones are appended after them, so batch
// error attribution follows the caller's ordering.
func (s *Service) resolveGuardians(direct []identity.Identity, delegatedKeys []string) ([]identity.Identity, error) {
	if len(delegatedKeys) == 0 {
		return direct, nil
	}
	if s.resolver == nil {
		return nil, account.WrapInternal("warden: no identity resolver configured", nil)
	}
	out := make([]identity.Identity, 0, len(direct)+len(delegatedKeys))
	out = append(out, direct...)
	for _, key := range delegatedKeys {
		id, err := s.resolver.Resolve(key)
		if err != nil {
			return nil, account.WrapInternal("warden: resolve delegated key "+key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func requireOwner(st *account.State, caller identity.Identity) error {
	if caller != st.Owner {
		return account.NewError(account.KindAuthorization, account.ReasonNotOwner, "caller is not the account owner")
	}
	return nil
}

func requireOwnerOrEntryPoint(st *account.State, caller, entryPoint identity.Identity) error {
	if caller == st.Owner {
		return nil
	}
	if !entryPoint.IsZero() && caller == entryPoint {
		return nil
	}
	return account.NewError(account.KindAuthorization, account.ReasonNotOwner, "caller is neither the owner nor the entry point")
}

// CreateAccount registers a new account owned by owner, seeding its guardian
// set from the direct identities plus the resolved delegated keys. The new
// record commits at version 1; an identity that already has an account fails
// with storage.ErrExists.
func (s *Service) CreateAccount(acct, owner identity.Identity, guardians []identity.Identity, delegatedKeys []string) (*account.State, error) {
	all, err := s.resolveGuardians(guardians, delegatedKeys)
	if err != nil {
		return nil, err
	}

	l := s.lockFor(acct)
	l.Lock()
	defer l.Unlock()

	st, err := account.New(acct, owner, s.now())
	if err != nil {
		return nil, err
	}
	if err := st.AddGuardians(all); err != nil {
		return nil, err
	}
	if err := s.store.Create(st); err != nil {
		return nil, err
	}

	s.emit(newAccountCreatedEvent(st))
	s.log.Info().
		Str("account", st.ID.String()).
		Str("owner", st.Owner.String()).
		Int("guardians", st.Count).
		Msg("account created")
	return st, nil
}

// GetAccount returns the account's current record.
func (s *Service) GetAccount(acct identity.Identity) (*account.State, error) {
	return s.store.Get(acct)
}
