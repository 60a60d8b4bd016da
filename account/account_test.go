package account

import (
	"errors"
	"testing"
	"time"

	"xdao.co/warden/identity"
)

func fillIdentity(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestState(t *testing.T) *State {
	t.Helper()
	st, err := New(fillIdentity(0xAA), fillIdentity(0x01), testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return st
}

func requireReason(t *testing.T, err error, kind Kind, reason Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with reason %s", reason)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *account.Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("Kind = %s, want %s", e.Kind, kind)
	}
	if e.Reason != reason {
		t.Fatalf("Reason = %s, want %s", e.Reason, reason)
	}
}

func TestNew_Validations(t *testing.T) {
	if _, err := New(identity.Zero, fillIdentity(0x01), testNow); err == nil {
		t.Fatalf("expected error for null account identity")
	}

	_, err := New(fillIdentity(0xAA), identity.Zero, testNow)
	requireReason(t, err, KindOwnership, ReasonInvalidOwner)

	_, err = New(fillIdentity(0xAA), fillIdentity(0xAA), testNow)
	requireReason(t, err, KindOwnership, ReasonInvalidOwner)
}

func TestNew_InitialRecord(t *testing.T) {
	st := newTestState(t)

	if p := st.Params(); p.Count != 0 || p.Threshold != 3 {
		t.Fatalf("initial params = %+v, want count 0 threshold 3", p)
	}
	if st.Version != 1 {
		t.Fatalf("initial version = %d, want 1", st.Version)
	}
	if !st.PendingOwner.IsZero() {
		t.Fatalf("fresh account has a pending owner")
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants: %v", err)
	}
}

func TestCopy_Independent(t *testing.T) {
	st := newTestState(t)
	if err := st.AddGuardians([]identity.Identity{fillIdentity(0x02)}); err != nil {
		t.Fatalf("AddGuardians: %v", err)
	}

	cp := st.Copy()
	if err := cp.AddGuardians([]identity.Identity{fillIdentity(0x03)}); err != nil {
		t.Fatalf("AddGuardians on copy: %v", err)
	}
	cp.Owner = fillIdentity(0x0F)

	if st.Count != 1 {
		t.Fatalf("copy mutation leaked into original: count = %d", st.Count)
	}
	if st.Owner != fillIdentity(0x01) {
		t.Fatalf("copy mutation leaked into original owner")
	}
	if cp.Count != 2 {
		t.Fatalf("copy count = %d, want 2", cp.Count)
	}
}

func TestCheckInvariants_Corruption(t *testing.T) {
	st := newTestState(t)
	if err := st.AddGuardians([]identity.Identity{fillIdentity(0x02), fillIdentity(0x03), fillIdentity(0x04)}); err != nil {
		t.Fatalf("AddGuardians: %v", err)
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants on healthy state: %v", err)
	}

	bad := st.Copy()
	bad.Count = 5
	if err := bad.CheckInvariants(); err == nil {
		t.Fatalf("expected invariant failure for count mismatch")
	}

	bad = st.Copy()
	bad.Threshold = 7
	if err := bad.CheckInvariants(); err == nil {
		t.Fatalf("expected invariant failure for threshold mismatch")
	}

	bad = st.Copy()
	bad.PendingOwner = bad.Owner
	if err := bad.CheckInvariants(); err == nil {
		t.Fatalf("expected invariant failure for pending owner == owner")
	}

	bad = st.Copy()
	bad.Owner = identity.Zero
	if err := bad.CheckInvariants(); err == nil {
		t.Fatalf("expected invariant failure for null owner")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := newError(KindValidation, ReasonDuplicateGuardian, "dup")
	if !IsKind(err, KindValidation) {
		t.Fatalf("IsKind missed KindValidation")
	}
	if IsKind(err, KindRecovery) {
		t.Fatalf("IsKind matched the wrong kind")
	}
	if ReasonOf(err) != ReasonDuplicateGuardian {
		t.Fatalf("ReasonOf = %s", ReasonOf(err))
	}
	if ReasonOf(errors.New("plain")) != "" {
		t.Fatalf("ReasonOf on a plain error should be empty")
	}

	wrapped := WrapInternal("store failed", errors.New("disk"))
	if !IsKind(wrapped, KindInternal) {
		t.Fatalf("WrapInternal did not produce KindInternal")
	}
	if errors.Unwrap(wrapped) == nil {
		t.Fatalf("WrapInternal lost the cause")
	}
}
