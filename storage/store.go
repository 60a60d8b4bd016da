// Package storage defines the persistence contract for account records.
package storage

import (
	"xdao.co/warden/account"
	"xdao.co/warden/identity"
)

// Store persists account records keyed by account identity.
//
// Contract:
// - Create MUST fail with ErrExists when the account is already registered.
// - Get MUST return ErrNotFound for an absent account, and MUST return a
//   record the caller owns outright (no aliasing into store memory).
// - Update MUST replace the stored record only when its persisted Version
//   equals expectedVersion, failing with ErrVersionConflict otherwise.
// - Records MUST satisfy account.CheckInvariants on every round-trip; a
//   record that fails the check is surfaced as ErrCorrupted.
// - List MUST return registered account identities in ascending hex order.
// - Implementations MUST be safe for concurrent use.
type Store interface {
	Create(st *account.State) error
	Get(id identity.Identity) (*account.State, error)
	Update(st *account.State, expectedVersion uint64) error
	List() ([]identity.Identity, error)
}
