package simulate

import "math"

// objectIDs is the cycling identifier sequence behind OBJECTID values. It
// starts at 1, increments by 1, and wraps back to 1 before reaching the
// all-ones value, so it never emits 0 and always fits unsigned 32 bits.
type objectIDs struct {
	last uint32
}

func (s *objectIDs) Next() uint32 {
	s.last++
	if s.last == math.MaxUint32 {
		s.last = 1
	}
	return s.last
}
