package client

import "sync/atomic"

// Sequencer tags debounced lookups with increasing numbers so only the
// answer to the most recent request is applied, whatever order the
// responses arrive in.
type Sequencer struct {
	latest atomic.Int64
}

// Next issues a new sequence number, superseding all earlier ones
func (s *Sequencer) Next() int64 {
	return s.latest.Add(1)
}

// IsLatest reports whether seq is the most recently issued number
func (s *Sequencer) IsLatest(seq int64) bool {
	return seq == s.latest.Load()
}

// Apply runs fn only when seq is still the latest and reports whether it ran
func (s *Sequencer) Apply(seq int64, fn func()) bool {
	if !s.IsLatest(seq) {
		return false
	}
	fn()
	return true
}
