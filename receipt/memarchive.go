package receipt

import (
	"sync"

	"github.com/ipfs/go-cid"
)

// MemArchive is an in-memory receipt archive for tests and ephemeral runs.
type MemArchive struct {
	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

func NewMem() *MemArchive {
	return &MemArchive{objects: make(map[cid.Cid][]byte)}
}

func (a *MemArchive) Put(bytes []byte) (cid.Cid, error) {
	id, err := ComputeCID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, ErrInvalidCID
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.objects[id]; ok {
		if string(existing) != string(bytes) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	a.objects[id] = cp
	return id, nil
}

func (a *MemArchive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.objects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (a *MemArchive) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.objects[id]
	return ok
}

// Len returns the number of stored receipts.
func (a *MemArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}
