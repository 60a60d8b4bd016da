package receipt

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"xdao.co/warden/events"
)

// ArchiveEmitter seals every event into a receipt and writes it to an
// archive. Emission is advisory: failures are logged and never propagate to
// the operation that produced the event.
type ArchiveEmitter struct {
	archive Archive
	log     zerolog.Logger
	clock   func() time.Time
}

// NewArchiveEmitter builds an emitter writing to archive. Pass zerolog.Nop()
// to silence it.
func NewArchiveEmitter(archive Archive, log zerolog.Logger) *ArchiveEmitter {
	return &ArchiveEmitter{archive: archive, log: log, clock: time.Now}
}

// WithClock overrides the receipt timestamp source. Tests use it to make
// sealed bytes reproducible.
func (e *ArchiveEmitter) WithClock(clock func() time.Time) *ArchiveEmitter {
	e.clock = clock
	return e
}

func (e *ArchiveEmitter) Emit(ev events.Event) {
	if e == nil || e.archive == nil {
		return
	}
	sealed, err := Seal(FromEvent(ev, e.clock().UTC()))
	if err != nil {
		e.log.Error().Err(err).Str("event", ev.Type).Msg("seal receipt")
		return
	}
	if _, err := e.archive.Put(sealed.Bytes); err != nil {
		e.log.Error().Err(err).Str("event", ev.Type).Str("cid", sealed.CID.String()).Msg("archive receipt")
		return
	}
	e.log.Debug().Str("event", ev.Type).Str("cid", sealed.CID.String()).Msg("receipt archived")
}

// FromEvent projects an event into a receipt. The "account" and "version"
// attributes are promoted to receipt fields; everything else is carried as-is.
func FromEvent(ev events.Event, at time.Time) Receipt {
	r := Receipt{Operation: ev.Type, At: at}
	attrs := make(map[string]string)
	for k, v := range ev.Attributes {
		if k == "account" {
			r.Account = v
			continue
		}
		if k == "version" {
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				r.Version = n
				continue
			}
		}
		attrs[k] = v
	}
	if len(attrs) > 0 {
		r.Attributes = attrs
	}
	return r
}
