package events

// Sequence hands out monotonically increasing local ids, starting at 1.
// Not safe for sharing across goroutines; each owner keeps its own.
type Sequence struct {
	n int
}

func (s *Sequence) Next() int {
	s.n++
	return s.n
}
