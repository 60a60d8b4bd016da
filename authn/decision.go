package authn

// Decision is the operation-authorization verdict.
//
// The authorization fast path is driven at high volume by the relaying
// environment, so an expected rejection is a value callers branch on, never
// an error to unwind.
type Decision int

const (
	Rejected Decision = iota
	Accepted
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}
