// Package memstore is an in-memory account store for tests and ephemeral
// runs. Records are deep-copied on every boundary crossing so callers never
// alias store memory.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"xdao.co/warden/account"
	"xdao.co/warden/identity"
	"xdao.co/warden/storage"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[identity.Identity]*account.State
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{accounts: make(map[identity.Identity]*account.State)}
}

func (s *Store) Create(st *account.State) error {
	if st == nil {
		return fmt.Errorf("memstore: nil state")
	}
	if err := st.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[st.ID]; ok {
		return storage.ErrExists
	}
	s.accounts[st.ID] = st.Copy()
	return nil
}

func (s *Store) Get(id identity.Identity) (*account.State, error) {
	s.mu.RLock()
	st, ok := s.accounts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := st.Copy()
	if err := out.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}
	return out, nil
}

func (s *Store) Update(st *account.State, expectedVersion uint64) error {
	if st == nil {
		return fmt.Errorf("memstore: nil state")
	}
	if err := st.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[st.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	s.accounts[st.ID] = st.Copy()
	return nil
}

func (s *Store) List() ([]identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]identity.Identity, 0, len(s.accounts))
	for id := range s.accounts {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
