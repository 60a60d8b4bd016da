// Package testkit holds the shared conformance suite that every account
// store implementation must pass.
package testkit

import (
	"errors"
	"testing"
	"time"

	"xdao.co/warden/account"
	"xdao.co/warden/identity"
	"xdao.co/warden/storage"
)

// NewStore constructs a fresh, empty store instance for a test.
// The returned store MUST be isolated from other tests.
type NewStore func(t *testing.T) storage.Store

func fillIdentity(fill byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func seedAccount(t *testing.T, acctFill byte, guardians int) *account.State {
	t.Helper()
	st, err := account.New(fillIdentity(acctFill), fillIdentity(acctFill+1), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("account.New failed: %v", err)
	}
	if guardians > 0 {
		ids := make([]identity.Identity, guardians)
		for i := range ids {
			ids[i] = fillIdentity(0x20 + byte(i))
		}
		if err := st.AddGuardians(ids); err != nil {
			t.Fatalf("AddGuardians failed: %v", err)
		}
	}
	return st
}

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("CreateGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := seedAccount(t, 0xA0, 5)

		if err := s.Create(want); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		got, err := s.Get(want.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ID != want.ID || got.Owner != want.Owner || got.PendingOwner != want.PendingOwner {
			t.Fatalf("identity fields mismatch: got %+v", got)
		}
		if got.Count != want.Count || got.Threshold != want.Threshold || got.Version != want.Version {
			t.Fatalf("params mismatch: got count=%d threshold=%d version=%d", got.Count, got.Threshold, got.Version)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Fatalf("timestamps mismatch: got %v/%v want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
		}
		for gid := range want.Guardians {
			if !got.IsGuardian(gid) {
				t.Fatalf("guardian %s lost in round trip", gid)
			}
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 0)

		if err := s.Create(st); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Create(st); !errors.Is(err, storage.ErrExists) {
			t.Fatalf("Create duplicate: got err=%v want ErrExists", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(fillIdentity(0xEE)); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}
	})

	t.Run("UpdateCommitsMutation", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 3)
		if err := s.Create(st); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		work := st.Copy()
		if err := work.AddGuardians([]identity.Identity{fillIdentity(0x77)}); err != nil {
			t.Fatalf("AddGuardians failed: %v", err)
		}
		work.Version = st.Version + 1
		work.UpdatedAt = st.UpdatedAt.Add(time.Minute)

		if err := s.Update(work, st.Version); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := s.Get(st.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Count != 4 || got.Version != st.Version+1 {
			t.Fatalf("mutation not committed: count=%d version=%d", got.Count, got.Version)
		}
		if !got.IsGuardian(identity.GuardianIDOf(fillIdentity(0x77))) {
			t.Fatalf("added guardian missing after update")
		}
	})

	t.Run("UpdateVersionConflict", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 0)
		if err := s.Create(st); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		work := st.Copy()
		work.Version = st.Version + 1
		stale := st.Version + 5
		if err := s.Update(work, stale); !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("Update stale: got err=%v want ErrVersionConflict", err)
		}

		// The losing write must not have changed anything.
		got, err := s.Get(st.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Version != st.Version {
			t.Fatalf("version changed by failed update: %d", got.Version)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 0)
		if err := s.Update(st, st.Version); !storage.IsNotFound(err) {
			t.Fatalf("Update missing: got err=%v want ErrNotFound", err)
		}
	})

	t.Run("GetIsolation", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 2)
		if err := s.Create(st); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := s.Get(st.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		// Mutating the returned record must not leak into the store.
		if err := got.AddGuardians([]identity.Identity{fillIdentity(0x78)}); err != nil {
			t.Fatalf("AddGuardians failed: %v", err)
		}

		again, err := s.Get(st.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if again.Count != 2 {
			t.Fatalf("caller mutation leaked into store: count=%d", again.Count)
		}
	})

	t.Run("RejectCorruptedRecord", func(t *testing.T) {
		s := newStore(t)
		st := seedAccount(t, 0xA0, 2)
		st.Count = 9 // violates count == len(guardians)
		if err := s.Create(st); !errors.Is(err, storage.ErrCorrupted) {
			t.Fatalf("Create corrupted: got err=%v want ErrCorrupted", err)
		}
	})

	t.Run("ListSorted", func(t *testing.T) {
		s := newStore(t)
		for _, fill := range []byte{0xC0, 0xA0, 0xB0} {
			if err := s.Create(seedAccount(t, fill, 0)); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}
		ids, err := s.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(ids) != 3 {
			t.Fatalf("List returned %d accounts, want 3", len(ids))
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1].String() >= ids[i].String() {
				t.Fatalf("List not sorted: %v", ids)
			}
		}
	})
}
