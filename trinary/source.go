package trinary

// Source yields trits sequentially to decoders.
//
// The slice returned by Next may alias internal buffers and is only valid
// until the next call; decoders that retain trits must copy them.
type Source interface {
	Next(n int) (Trits, error)
}

// SliceSource reads from an in-memory trit slice.
type SliceSource struct {
	t   Trits
	pos int
}

// NewSource returns a Source positioned at the start of t.
func NewSource(t Trits) *SliceSource {
	return &SliceSource{t: t}
}

func (s *SliceSource) Next(n int) (Trits, error) {
	if n < 0 || n > len(s.t)-s.pos {
		return nil, ErrShortInput
	}
	out := s.t[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

// Remaining returns the number of unread trits.
func (s *SliceSource) Remaining() int { return len(s.t) - s.pos }

// Offset returns the number of trits consumed so far.
func (s *SliceSource) Offset() int { return s.pos }
