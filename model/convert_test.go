package model

import (
	"testing"
	"time"

	"xdao.co/warden/account"
	"xdao.co/warden/identity"
	"xdao.co/warden/storage"
)

func fillIdentity(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestFromState(t *testing.T) {
	st, err := account.New(fillIdentity(0xAC), fillIdentity(0x01), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("account.New: %v", err)
	}

	v := FromState(st)
	if v.Account != st.ID.String() || v.Owner != st.Owner.String() {
		t.Fatalf("identity projection mismatch: %+v", v)
	}
	if v.PendingOwner != "" {
		t.Fatalf("stable account projected a pending owner: %q", v.PendingOwner)
	}
	if v.GuardianCount != 0 || v.Threshold != 3 || v.Version != 1 {
		t.Fatalf("params projection mismatch: %+v", v)
	}

	if err := st.ProposeTransfer(fillIdentity(0x02)); err != nil {
		t.Fatalf("ProposeTransfer: %v", err)
	}
	v = FromState(st)
	if v.PendingOwner != fillIdentity(0x02).String() {
		t.Fatalf("pendingOwner = %q, want proposed identity", v.PendingOwner)
	}
}

func TestToIdentityRoundTrip(t *testing.T) {
	want := fillIdentity(0x5A)
	got, err := ToIdentity(want.String())
	if err != nil {
		t.Fatalf("ToIdentity: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %s != %s", got, want)
	}

	_, err = ToIdentity("0xzz")
	if err == nil {
		t.Fatalf("accepted malformed identity")
	}
	ce := WireError(err)
	if ce.Code != ErrInvalidIdentity {
		t.Fatalf("code = %s, want %s", ce.Code, ErrInvalidIdentity)
	}
}

func TestToGuardianIDsPreservesOrder(t *testing.T) {
	a := identity.GuardianIDOf(fillIdentity(0x01))
	b := identity.GuardianIDOf(fillIdentity(0x02))
	got, err := ToGuardianIDs([]string{a.String(), b.String()})
	if err != nil {
		t.Fatalf("ToGuardianIDs: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("order not preserved")
	}
}

func TestWireErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   ErrorCode
		reason string
	}{
		{"validation", account.NewError(account.KindValidation, account.ReasonDuplicateGuardian, "dup"), ErrValidationFailed, "DuplicateGuardian"},
		{"authorization", account.NewError(account.KindAuthorization, account.ReasonNotOwner, "no"), ErrNotAuthorized, "NotOwner"},
		{"recovery", account.NewError(account.KindRecovery, account.ReasonRecoveryFailed, "below quorum"), ErrRecoveryFailed, "RecoveryFailed"},
		{"ownership", account.NewError(account.KindOwnership, account.ReasonInvalidOwner, "bad owner"), ErrInvalidOwner, "InvalidOwner"},
		{"not found", storage.ErrNotFound, ErrNotFound, ""},
		{"exists", storage.ErrExists, ErrAlreadyExists, ""},
		{"version conflict", storage.ErrVersionConflict, ErrVersionConflict, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce := WireError(tc.err)
			if ce.Code != tc.code {
				t.Fatalf("code = %s, want %s", ce.Code, tc.code)
			}
			if ce.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", ce.Reason, tc.reason)
			}
		})
	}
}

func TestWireErrorPassthroughAndNil(t *testing.T) {
	if WireError(nil) != nil {
		t.Fatalf("nil error mapped to non-nil")
	}
	orig := NewError(ErrInvalidRequest, "bad payload")
	if got := WireError(orig); got != orig {
		t.Fatalf("CodedError did not pass through")
	}
}
