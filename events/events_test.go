package events

import (
	"sync"
	"testing"
)

func TestBufferRecordsInOrder(t *testing.T) {
	var b Buffer
	b.Emit(Event{Type: "a", Attributes: map[string]string{"k": "1"}})
	b.Emit(Event{Type: "b", Attributes: map[string]string{"k": "2"}})

	got := b.Events()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("order = [%s, %s], want [a, b]", got[0].Type, got[1].Type)
	}
	if got[1].Attributes["k"] != "2" {
		t.Fatalf("attributes not preserved: %v", got[1].Attributes)
	}
}

func TestBufferSnapshotIsIndependent(t *testing.T) {
	var b Buffer
	src := Event{Type: "a", Attributes: map[string]string{"k": "1"}}
	b.Emit(src)

	// Mutating the caller's map after Emit must not reach the buffer.
	src.Attributes["k"] = "tampered"
	// Mutating a snapshot must not reach later snapshots.
	snap := b.Events()
	snap[0].Attributes["k"] = "also tampered"

	got := b.Events()
	if got[0].Attributes["k"] != "1" {
		t.Fatalf("buffer shared a map with caller or snapshot: %v", got[0].Attributes)
	}
}

func TestBufferConcurrentEmit(t *testing.T) {
	var b Buffer
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Emit(Event{Type: "tick"})
			}
		}()
	}
	wg.Wait()
	if n := len(b.Events()); n != 16*50 {
		t.Fatalf("recorded %d events, want %d", n, 16*50)
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b Buffer
	m := Multi{&a, nil, &b, NoopEmitter{}}
	m.Emit(Event{Type: "x"})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("fan-out missed an emitter: a=%d b=%d", len(a.Events()), len(b.Events()))
	}
}

func TestReset(t *testing.T) {
	var b Buffer
	b.Emit(Event{Type: "x"})
	b.Reset()
	if len(b.Events()) != 0 {
		t.Fatalf("reset left events behind")
	}
}
