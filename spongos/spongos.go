// Package spongos implements the trinary duplex sponge that drives message
// authentication and encryption.
//
// The state is Width trits: an outer part of Rate trits that data is
// absorbed into and squeezed out of, and an inner Capacity part that is only
// touched by the permutation. Absorb overwrites the outer part; Squeeze
// zeroes what it outputs; Encr/Decr overwrite the outer part with plaintext.
package spongos

import (
	"encoding/binary"
	"errors"

	"xdao.co/mam/trinary"
)

const (
	// Rate is the size of the outer part in trits.
	Rate = 486
	// Capacity is the size of the inner part in trits.
	Capacity = 243
	// Width is the full state size in trits.
	Width = Rate + Capacity
)

// ErrInvalidState is returned when a marshalled state cannot be decoded.
var ErrInvalidState = errors.New("spongos: invalid marshalled state")

// Spongos is a duplex sponge over a trinary state.
//
// A Spongos is not safe for concurrent use. Fork returns an independent copy.
type Spongos struct {
	f   Permutation
	s   trinary.Trits
	pos int
}

// New returns a zero-state Spongos driven by f.
func New(f Permutation) *Spongos {
	if f == nil {
		panic("spongos: nil permutation")
	}
	return &Spongos{f: f, s: trinary.Zero(Width)}
}

// Permutation returns the permutation driving s.
func (s *Spongos) Permutation() Permutation { return s.f }

func (s *Spongos) update() {
	s.f.Transform(s.s)
	s.pos = 0
}

// step returns how many trits of an n-trit request fit in the current
// outer part, permuting first when it is exhausted.
func (s *Spongos) step(n int) int {
	if s.pos == Rate {
		s.update()
	}
	if r := Rate - s.pos; n > r {
		return r
	}
	return n
}

// Absorb overwrites the outer state with x.
func (s *Spongos) Absorb(x trinary.Trits) {
	for len(x) > 0 {
		n := s.step(len(x))
		copy(s.s[s.pos:], x[:n])
		s.pos += n
		x = x[n:]
	}
}

// Squeeze fills y with outer state and zeroes the trits it consumed.
func (s *Spongos) Squeeze(y trinary.Trits) {
	for len(y) > 0 {
		n := s.step(len(y))
		outer := s.s[s.pos : s.pos+n]
		copy(y, outer)
		for i := range outer {
			outer[i] = 0
		}
		s.pos += n
		y = y[n:]
	}
}

// SqueezeN is a convenience wrapper returning n squeezed trits.
func (s *Spongos) SqueezeN(n int) trinary.Trits {
	y := trinary.Zero(n)
	s.Squeeze(y)
	return y
}

// Encr writes src+outer to dst and overwrites the outer state with src.
// dst and src must have equal length and may alias.
func (s *Spongos) Encr(dst, src trinary.Trits) {
	for off := 0; off < len(src); {
		n := s.step(len(src) - off)
		for i := 0; i < n; i++ {
			x := src[off+i]
			dst[off+i] = trinary.Add(x, s.s[s.pos+i])
			s.s[s.pos+i] = x
		}
		s.pos += n
		off += n
	}
}

// Decr reverses Encr: it writes src-outer to dst and overwrites the outer
// state with the recovered plaintext. dst and src may alias.
func (s *Spongos) Decr(dst, src trinary.Trits) {
	for off := 0; off < len(src); {
		n := s.step(len(src) - off)
		for i := 0; i < n; i++ {
			x := trinary.Sub(src[off+i], s.s[s.pos+i])
			s.s[s.pos+i] = x
			dst[off+i] = x
		}
		s.pos += n
		off += n
	}
}

// Commit forces a permutation if anything was absorbed or squeezed since
// the last one.
func (s *Spongos) Commit() {
	if s.pos != 0 {
		s.update()
	}
}

// Fork returns an independent copy of s.
func (s *Spongos) Fork() *Spongos {
	return &Spongos{f: s.f, s: s.s.Clone(), pos: s.pos}
}

// Join folds the committed state of other into s by absorbing Capacity
// squeezed trits. other is advanced; pass a Fork to keep it intact.
func (s *Spongos) Join(other *Spongos) {
	other.Commit()
	s.Absorb(other.SqueezeN(Capacity))
}

// Hash returns n trits of the sponge hash of data under f.
func Hash(f Permutation, data trinary.Trits, n int) trinary.Trits {
	s := New(f)
	s.Absorb(data)
	s.Commit()
	return s.SqueezeN(n)
}

// MarshalBinary encodes the position and state; the permutation is not
// part of the encoding.
func (s *Spongos) MarshalBinary() ([]byte, error) {
	out := make([]byte, 2, 2+(Width+4)/5)
	binary.BigEndian.PutUint16(out, uint16(s.pos))
	return append(out, pack5(s.s)...), nil
}

// Unmarshal rebuilds a Spongos from MarshalBinary output.
func Unmarshal(f Permutation, b []byte) (*Spongos, error) {
	if f == nil {
		return nil, errors.New("spongos: nil permutation")
	}
	if len(b) < 2 {
		return nil, ErrInvalidState
	}
	pos := int(binary.BigEndian.Uint16(b))
	if pos > Rate {
		return nil, ErrInvalidState
	}
	st, ok := unpack5(b[2:], Width)
	if !ok {
		return nil, ErrInvalidState
	}
	return &Spongos{f: f, s: st, pos: pos}, nil
}
