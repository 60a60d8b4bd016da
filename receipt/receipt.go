// Package receipt seals committed account operations into canonical,
// content-addressed records.
//
// A receipt's identity is the CIDv1 (raw codec, sha2-256 multihash) of its
// canonical JSON bytes. Archives store receipts immutably under that CID and
// re-verify bytes against it on read.
package receipt

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ipfs/go-cid"
)

// Receipt is a canonical record of one committed operation.
type Receipt struct {
	Account    string            `json:"account"`
	Operation  string            `json:"operation"`
	Version    uint64            `json:"version,omitempty"`
	At         time.Time         `json:"at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Canonical returns the receipt's canonical bytes: compact JSON with the
// timestamp normalized to UTC. encoding/json sorts map keys, so the bytes
// are deterministic for a given receipt value.
func (r Receipt) Canonical() ([]byte, error) {
	r.At = r.At.UTC()
	if len(r.Attributes) == 0 {
		r.Attributes = nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("receipt: marshal: %w", err)
	}
	return b, nil
}

// Sealed is a receipt bound to its canonical bytes and CID.
type Sealed struct {
	Receipt Receipt
	Bytes   []byte
	CID     cid.Cid
}

// Seal computes the canonical bytes and CID for r.
func Seal(r Receipt) (Sealed, error) {
	b, err := r.Canonical()
	if err != nil {
		return Sealed{}, err
	}
	id, err := ComputeCID(b)
	if err != nil {
		return Sealed{}, err
	}
	return Sealed{Receipt: r, Bytes: b, CID: id}, nil
}

// Parse decodes canonical receipt bytes.
func Parse(b []byte) (Receipt, error) {
	var r Receipt
	if err := json.Unmarshal(b, &r); err != nil {
		return Receipt{}, fmt.Errorf("receipt: parse: %w", err)
	}
	return r, nil
}

// Verify checks that b is the receipt content addressed by id.
func Verify(b []byte, id cid.Cid) error {
	if !id.Defined() {
		return ErrInvalidCID
	}
	got, err := ComputeCID(b)
	if err != nil {
		return err
	}
	if got != id {
		return ErrCIDMismatch
	}
	return nil
}

// AttributeKeys returns the receipt's attribute keys in sorted order.
func (r Receipt) AttributeKeys() []string {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
