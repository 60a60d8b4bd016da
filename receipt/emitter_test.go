package receipt

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"xdao.co/warden/events"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestArchiveEmitterSealsEvents(t *testing.T) {
	mem := NewMem()
	em := NewArchiveEmitter(mem, zerolog.Nop()).WithClock(fixedClock)

	em.Emit(events.Event{
		Type: "warden.guardians.added",
		Attributes: map[string]string{
			"account": "0xaa",
			"version": "4",
			"count":   "5",
		},
	})

	if mem.Len() != 1 {
		t.Fatalf("archive holds %d receipts, want 1", mem.Len())
	}

	// Recompute the expected CID from the projected receipt.
	want, err := Seal(Receipt{
		Account:    "0xaa",
		Operation:  "warden.guardians.added",
		Version:    4,
		At:         fixedClock(),
		Attributes: map[string]string{"count": "5"},
	})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !mem.Has(want.CID) {
		t.Fatalf("archive missing expected receipt CID %s", want.CID)
	}
}

func TestArchiveEmitterIsAdvisory(t *testing.T) {
	// Nil archive must be a silent no-op, not a panic.
	var em *ArchiveEmitter
	em.Emit(events.Event{Type: "x"})

	em = NewArchiveEmitter(nil, zerolog.Nop())
	em.Emit(events.Event{Type: "x"})
}

func TestFromEventKeepsUnparsableVersion(t *testing.T) {
	r := FromEvent(events.Event{
		Type:       "warden.account.created",
		Attributes: map[string]string{"version": "not-a-number"},
	}, fixedClock())
	if r.Version != 0 {
		t.Fatalf("version = %d, want 0", r.Version)
	}
	if r.Attributes["version"] != "not-a-number" {
		t.Fatalf("unparsable version dropped: %v", r.Attributes)
	}
}

func TestEmitterIdenticalEventsDeduplicate(t *testing.T) {
	mem := NewMem()
	em := NewArchiveEmitter(mem, zerolog.Nop()).WithClock(fixedClock)

	ev := events.Event{Type: "warden.transfer.proposed", Attributes: map[string]string{"account": "0xaa"}}
	em.Emit(ev)
	em.Emit(ev)

	// Same canonical bytes, same CID: content addressing collapses them.
	if mem.Len() != 1 {
		t.Fatalf("archive holds %d receipts, want 1", mem.Len())
	}
}
