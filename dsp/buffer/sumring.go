package buffer

// resumInterval bounds floating-point drift of the running sum.
const resumInterval = 4096

// SumRing is a float64 ring that maintains the sum of its contents, the
// building block of sliding-window loudness integration.
type SumRing struct {
	ring  Ring[float64]
	sum   float64
	since int
}

// NewSumRing returns an empty ring holding at most capacity values.
func NewSumRing(capacity int) *SumRing {
	return &SumRing{ring: *NewRing[float64](capacity)}
}

// Push appends v and updates the running sum.
func (s *SumRing) Push(v float64) {
	old, evicted := s.ring.Push(v)

	s.sum += v
	if evicted {
		s.sum -= old
	}

	s.since++
	if s.since >= resumInterval {
		s.resum()
	}

	if s.sum < 0 {
		s.sum = 0
	}
}

// Sum returns the sum of the stored values.
func (s *SumRing) Sum() float64 { return s.sum }

// Mean returns Sum()/Len(), or 0 when empty.
func (s *SumRing) Mean() float64 {
	if s.ring.Len() == 0 {
		return 0
	}

	return s.sum / float64(s.ring.Len())
}

// Len returns the number of stored values.
func (s *SumRing) Len() int { return s.ring.Len() }

// Cap returns the fixed capacity.
func (s *SumRing) Cap() int { return s.ring.Cap() }

// Full reports whether the ring holds Cap() values.
func (s *SumRing) Full() bool { return s.ring.Full() }

// At returns the i-th value, 0 being the oldest.
func (s *SumRing) At(i int) float64 { return s.ring.At(i) }

// Values returns a copy of the stored values, oldest first.
func (s *SumRing) Values() []float64 { return s.ring.Values() }

// Trim keeps only the n newest values.
func (s *SumRing) Trim(n int) {
	s.ring.Trim(n)
	s.resum()
}

// Reset empties the ring.
func (s *SumRing) Reset() {
	s.ring.Reset()
	s.sum = 0
	s.since = 0
}

func (s *SumRing) resum() {
	sum := 0.0
	s.ring.Do(func(_ int, v float64) { sum += v })
	s.sum = sum
	s.since = 0
}
