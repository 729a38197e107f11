// Package prng derives deterministic key material from a secret key and a
// nonce using the spongos construction.
package prng

import (
	"errors"

	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

// KeySize is the PRNG secret key size in trits.
const KeySize = 243

// ErrKeySize is returned when a PRNG key is not KeySize trits long.
var ErrKeySize = errors.New("prng: key must be 243 trits")

// Prng generates pseudorandom trits. Output depends only on the key and the
// nonce passed to Gen; a Prng holds no evolving state.
type Prng struct {
	f   spongos.Permutation
	key trinary.Trits
}

// New returns a Prng keyed with key.
func New(f spongos.Permutation, key trinary.Trits) (*Prng, error) {
	if key.Size() != KeySize {
		return nil, ErrKeySize
	}
	return &Prng{f: f, key: key.Clone()}, nil
}

// Gen returns n trits derived from the key and nonce.
func (p *Prng) Gen(nonce trinary.Trits, n int) trinary.Trits {
	s := spongos.New(p.f)
	s.Absorb(p.key)
	s.Commit()
	s.Absorb(nonce)
	s.Commit()
	return s.SqueezeN(n)
}
