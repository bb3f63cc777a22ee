package sources

import "sync"

// SequenceRandomizer replays a fixed sequence of draws, reducing each modulo n.
// It wraps around when the sequence is exhausted and always returns 0 when empty.
type SequenceRandomizer struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceRandomizer creates a randomizer replaying values
func NewSequenceRandomizer(values ...int) *SequenceRandomizer {
	return &SequenceRandomizer{values: values}
}

// IntN returns the next value of the sequence modulo n
func (r *SequenceRandomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 || n <= 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return ((v % n) + n) % n
}
