package brk

import "github.com/pkg/errors"

// Simulated is a deterministic, OS-free Source backed by a plain Go slice.
// It exists so heap's tests (and cmd/heapsh's scripted mode) can exercise
// every growth and shrink path without reserving real address space, and
// without the nondeterminism a real mmap-backed base address would add to
// "relative addresses" diagnostics.
//
// Like Reserved, Simulated never relocates its backing array once
// constructed: its capacity is fixed at construction time and growth beyond it
// is reported as ErrExhausted, matching Reserved's contract exactly.
type Simulated struct {
	region []byte
	brkOff int
}

// NewSimulated allocates a capacity-byte Go slice to stand in for a reserved
// address-space region. capacity <= 0 selects DefaultCapacity.
func NewSimulated(capacity int) *Simulated {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Simulated{region: make([]byte, capacity)}
}

// Break implements Source.
func (s *Simulated) Break(delta int) (uintptr, []byte, error) {
	old := s.baseAddr() + uintptr(s.brkOff)

	switch {
	case delta == 0:
		return old, nil, nil
	case delta < 0:
		if -delta > s.brkOff {
			return old, nil, errors.Errorf("brk: cannot retract %d bytes, only %d bytes grown", -delta, s.brkOff)
		}
		s.brkOff += delta
		return old, nil, nil
	default:
		if s.brkOff+delta > len(s.region) {
			return old, nil, errors.Wrapf(ErrExhausted, "need %d more bytes, only %d left of %d reserved", delta, len(s.region)-s.brkOff, len(s.region))
		}
		mem := s.region[s.brkOff : s.brkOff+delta]
		s.brkOff += delta
		return old, mem, nil
	}
}

// BreakOffset reports the current logical break as an offset from the start
// of the simulated region; useful for tests that want byte offsets rather
// than real addresses.
func (s *Simulated) BreakOffset() int { return s.brkOff }

// Close discards the backing slice.
func (s *Simulated) Close() error {
	s.region = nil
	s.brkOff = 0
	return nil
}
