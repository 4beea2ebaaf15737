package dice

import (
	"fmt"
	"sync"
)

// SequenceSource replays a fixed list of draws, wrapping around when the list
// is exhausted. It makes battles reproducible in tests.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  int
}

// NewSequenceSource returns a Source that yields values in order.
//
// Precondition: len(values) > 0.
func NewSequenceSource(values ...int) *SequenceSource {
	if len(values) == 0 {
		panic("dice: NewSequenceSource requires at least one value")
	}
	cp := make([]int, len(values))
	copy(cp, values)
	return &SequenceSource{values: cp}
}

// Intn returns the next queued value.
//
// Precondition: n > 0 and the queued value is in [0, n); a value outside that
// range panics so that a miswritten fixture fails loudly.
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.calls++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("dice: sequence value %d out of range [0, %d)", v, n))
	}
	return v
}

// Calls returns how many draws have been taken.
func (s *SequenceSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
