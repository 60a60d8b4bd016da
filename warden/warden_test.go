package warden

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xdao.co/warden/account"
	"xdao.co/warden/authn"
	"xdao.co/warden/digest"
	"xdao.co/warden/events"
	"xdao.co/warden/identity"
	"xdao.co/warden/storage"
	"xdao.co/warden/storage/memstore"
)

type testKey struct {
	priv *secp256k1.PrivateKey
	id   identity.Identity
}

func newTestKey(fill byte) testKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	priv := secp256k1.PrivKeyFromBytes(seed)
	return testKey{priv: priv, id: identity.FromPublicKey(priv.PubKey())}
}

// sign produces a compact recoverable signature over the raw digest.
func (k testKey) sign(dig [32]byte) []byte {
	return ecdsa.SignCompact(k.priv, dig[:], false)
}

// signOperation signs the digest under the operation envelope, the form
// Authorize expects.
func (k testKey) signOperation(dig [32]byte) []byte {
	wrapped := digest.Wrap(dig)
	return ecdsa.SignCompact(k.priv, wrapped[:], false)
}

func fillIdentity(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

type mapResolver map[string]identity.Identity

func (m mapResolver) Resolve(key string) (identity.Identity, error) {
	id, ok := m[key]
	if !ok {
		return identity.Zero, errors.New("no owner recorded for key " + key)
	}
	return id, nil
}

type recordingExecutor struct {
	failOn identity.Identity
	called []identity.Identity
}

func (e *recordingExecutor) Execute(acct, target identity.Identity, data []byte) ([]byte, error) {
	e.called = append(e.called, target)
	if !e.failOn.IsZero() && target == e.failOn {
		return nil, errors.New("call reverted")
	}
	return append([]byte("ok:"), data...), nil
}

type env struct {
	svc      *Service
	store    *memstore.Store
	buf      *events.Buffer
	dir      *authn.MapDirectory
	exec     *recordingExecutor
	clock    time.Time
	acct     identity.Identity
	owner    testKey
	entry    identity.Identity
	keys     []testKey
	resolved testKey
}

// newEnv builds a service over a fresh in-memory store and creates one
// account with five registered guardians (threshold 3).
func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		store:    memstore.New(),
		buf:      &events.Buffer{},
		dir:      authn.NewMapDirectory(),
		exec:     &recordingExecutor{},
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		acct:     fillIdentity(0xAC),
		owner:    newTestKey(0x01),
		entry:    fillIdentity(0xEE),
		resolved: newTestKey(0x51),
	}
	for _, fill := range []byte{0x21, 0x22, 0x23, 0x24, 0x25} {
		e.keys = append(e.keys, newTestKey(fill))
	}

	svc, err := New(Config{
		ChainID:    7,
		EntryPoint: e.entry,
		Store:      e.store,
		Resolver:   mapResolver{"vault-key": e.resolved.id},
		Delegates:  e.dir,
		Executor:   e.exec,
		Emitter:    e.buf,
		Now:        func() time.Time { return e.clock },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.svc = svc

	ids := make([]identity.Identity, len(e.keys))
	for i, k := range e.keys {
		ids[i] = k.id
	}
	if _, err := svc.CreateAccount(e.acct, e.owner.id, ids, nil); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	e.buf.Reset()
	return e
}

func (e *env) mustGet(t *testing.T) *account.State {
	t.Helper()
	st, err := e.svc.GetAccount(e.acct)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	return st
}

func requireReason(t *testing.T, err error, kind account.Kind, reason account.Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with reason %s", reason)
	}
	var e *account.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *account.Error, got %T: %v", err, err)
	}
	if e.Kind != kind || e.Reason != reason {
		t.Fatalf("got %s/%s, want %s/%s", e.Kind, e.Reason, kind, reason)
	}
}

func requireEvent(t *testing.T, buf *events.Buffer, typ string) events.Event {
	t.Helper()
	evs := buf.Events()
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == typ {
			return evs[i]
		}
	}
	t.Fatalf("no %s event emitted (got %d events)", typ, len(evs))
	return events.Event{}
}

func requireNoEvents(t *testing.T, buf *events.Buffer) {
	t.Helper()
	if evs := buf.Events(); len(evs) != 0 {
		t.Fatalf("expected no events, got %d (first: %s)", len(evs), evs[0].Type)
	}
}

func TestCreateAccount(t *testing.T) {
	e := newEnv(t)

	st := e.mustGet(t)
	if st.Owner != e.owner.id {
		t.Fatalf("owner = %s, want %s", st.Owner, e.owner.id)
	}
	if st.Version != 1 {
		t.Fatalf("fresh account version = %d, want 1", st.Version)
	}
	if p := st.Params(); p.Count != 5 || p.Threshold != 3 {
		t.Fatalf("params = %+v, want count 5 threshold 3", p)
	}
	if !st.CreatedAt.Equal(e.clock) || !st.UpdatedAt.Equal(e.clock) {
		t.Fatalf("timestamps not stamped from the service clock")
	}
}

func TestCreateAccountEmitsCreatedEvent(t *testing.T) {
	e := newEnv(t)

	acct := fillIdentity(0xAD)
	if _, err := e.svc.CreateAccount(acct, e.owner.id, nil, nil); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	ev := requireEvent(t, e.buf, EventTypeAccountCreated)
	if ev.Attributes["account"] != acct.String() {
		t.Fatalf("event account = %q", ev.Attributes["account"])
	}
	if ev.Attributes["version"] != "1" || ev.Attributes["count"] != "0" {
		t.Fatalf("event attributes = %v", ev.Attributes)
	}
}

func TestCreateAccountDuplicateIdentity(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.CreateAccount(e.acct, e.owner.id, nil, nil)
	if !errors.Is(err, storage.ErrExists) {
		t.Fatalf("duplicate create: got %v, want storage.ErrExists", err)
	}
}

func TestCreateAccountResolvesDelegatedKeys(t *testing.T) {
	e := newEnv(t)

	acct := fillIdentity(0xAD)
	direct := newTestKey(0x61)
	st, err := e.svc.CreateAccount(acct, e.owner.id, []identity.Identity{direct.id}, []string{"vault-key"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if st.Count != 2 {
		t.Fatalf("count = %d, want 2 (one direct, one resolved)", st.Count)
	}
	ok, err := e.svc.IsGuardian(acct, identity.GuardianIDOf(e.resolved.id))
	if err != nil || !ok {
		t.Fatalf("resolved key's identity not registered: ok=%v err=%v", ok, err)
	}
}

func TestCreateAccountUnknownDelegatedKey(t *testing.T) {
	e := newEnv(t)

	acct := fillIdentity(0xAD)
	_, err := e.svc.CreateAccount(acct, e.owner.id, nil, []string{"no-such-key"})
	requireReason(t, err, account.KindInternal, account.ReasonInternal)

	if _, err := e.svc.GetAccount(acct); !storage.IsNotFound(err) {
		t.Fatalf("failed create left a record behind: %v", err)
	}
}

func TestCreateAccountRejectsOwnerAsGuardian(t *testing.T) {
	e := newEnv(t)

	acct := fillIdentity(0xAD)
	_, err := e.svc.CreateAccount(acct, e.owner.id, []identity.Identity{e.owner.id}, nil)
	requireReason(t, err, account.KindValidation, account.ReasonSelfGuardian)
	if _, err := e.svc.GetAccount(acct); !storage.IsNotFound(err) {
		t.Fatalf("failed create left a record behind: %v", err)
	}
}

func TestAddGuardiansOwnerGate(t *testing.T) {
	e := newEnv(t)
	stranger := newTestKey(0x71)

	_, err := e.svc.AddGuardians(e.acct, stranger.id, []identity.Identity{newTestKey(0x72).id}, nil)
	requireReason(t, err, account.KindAuthorization, account.ReasonNotOwner)

	if st := e.mustGet(t); st.Version != 1 || st.Count != 5 {
		t.Fatalf("gated call mutated state: version=%d count=%d", st.Version, st.Count)
	}
	requireNoEvents(t, e.buf)
}

func TestAddGuardiansCommitsAndEmits(t *testing.T) {
	e := newEnv(t)
	e.clock = e.clock.Add(time.Minute)

	st, err := e.svc.AddGuardians(e.acct, e.owner.id, []identity.Identity{newTestKey(0x72).id}, []string{"vault-key"})
	if err != nil {
		t.Fatalf("AddGuardians: %v", err)
	}
	if st.Count != 7 || st.Threshold != 4 {
		t.Fatalf("count=%d threshold=%d, want 7/4", st.Count, st.Threshold)
	}
	if st.Version != 2 {
		t.Fatalf("version = %d, want 2", st.Version)
	}
	if !st.UpdatedAt.Equal(e.clock) {
		t.Fatalf("UpdatedAt not restamped on commit")
	}

	ev := requireEvent(t, e.buf, EventTypeGuardiansAdded)
	if ev.Attributes["added"] != "2" || ev.Attributes["version"] != "2" {
		t.Fatalf("event attributes = %v", ev.Attributes)
	}

	persisted := e.mustGet(t)
	if persisted.Count != 7 || persisted.Version != 2 {
		t.Fatalf("commit not visible on reload: %+v", persisted.Params())
	}
}

func TestAddGuardiansDuplicateAborts(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.AddGuardians(e.acct, e.owner.id,
		[]identity.Identity{newTestKey(0x72).id, e.keys[0].id}, nil)
	requireReason(t, err, account.KindValidation, account.ReasonDuplicateGuardian)

	if st := e.mustGet(t); st.Count != 5 || st.Version != 1 {
		t.Fatalf("aborted batch mutated state: count=%d version=%d", st.Count, st.Version)
	}
	requireNoEvents(t, e.buf)
}

func TestRemoveGuardians(t *testing.T) {
	e := newEnv(t)

	gids := []identity.GuardianID{
		identity.GuardianIDOf(e.keys[3].id),
		identity.GuardianIDOf(e.keys[4].id),
	}
	st, err := e.svc.RemoveGuardians(e.acct, e.owner.id, gids)
	if err != nil {
		t.Fatalf("RemoveGuardians: %v", err)
	}
	if st.Count != 3 || st.Threshold != 3 {
		t.Fatalf("count=%d threshold=%d, want 3/3", st.Count, st.Threshold)
	}

	ev := requireEvent(t, e.buf, EventTypeGuardiansRemoved)
	if ev.Attributes["removed"] != "2" {
		t.Fatalf("event attributes = %v", ev.Attributes)
	}
}

func TestRemoveGuardiansUnregisteredAborts(t *testing.T) {
	e := newEnv(t)

	gids := []identity.GuardianID{
		identity.GuardianIDOf(e.keys[0].id),
		identity.GuardianIDOf(newTestKey(0x77).id),
	}
	_, err := e.svc.RemoveGuardians(e.acct, e.owner.id, gids)
	requireReason(t, err, account.KindValidation, account.ReasonUnregisteredGuardian)

	if st := e.mustGet(t); st.Count != 5 {
		t.Fatalf("aborted batch removed guardians: count=%d", st.Count)
	}
}

func TestGuardianReads(t *testing.T) {
	e := newEnv(t)

	ok, err := e.svc.IsGuardian(e.acct, identity.GuardianIDOf(e.keys[0].id))
	if err != nil || !ok {
		t.Fatalf("IsGuardian(registered) = %v, %v", ok, err)
	}
	ok, err = e.svc.IsGuardian(e.acct, identity.GuardianIDOf(newTestKey(0x77).id))
	if err != nil || ok {
		t.Fatalf("IsGuardian(unregistered) = %v, %v", ok, err)
	}

	p, err := e.svc.GuardianParams(e.acct)
	if err != nil {
		t.Fatalf("GuardianParams: %v", err)
	}
	again, err := e.svc.GuardianParams(e.acct)
	if err != nil || p != again {
		t.Fatalf("GuardianParams not idempotent: %+v vs %+v (%v)", p, again, err)
	}

	if _, err := e.svc.GuardianParams(fillIdentity(0xDD)); !storage.IsNotFound(err) {
		t.Fatalf("unknown account: got %v, want not-found", err)
	}
}

func TestConcurrentMutationsSerialize(t *testing.T) {
	e := newEnv(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = e.svc.ProposeTransfer(e.acct, e.owner.id, newTestKey(byte(0x80+n)).id)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("writer %d: %v", i, err)
		}
	}
	if st := e.mustGet(t); st.Version != 1+writers {
		t.Fatalf("version = %d, want %d (every write serialized)", st.Version, 1+writers)
	}
}
