package account

// ThresholdFor derives the recovery quorum from the number of registered
// guardians: a strict majority, floored at 3.
//
//	ThresholdFor(n) = max(n/2 + 1, 3)
//
// The floor is policy: below 3 registered guardians the threshold exceeds the
// number of votes that could ever be cast, so recovery is structurally
// unavailable until the set reaches 3.
//
// The value is recomputed eagerly after every guardian-set mutation, never
// lazily at read time.
func ThresholdFor(count int) int {
	t := count/2 + 1
	if t < 3 {
		return 3
	}
	return t
}
