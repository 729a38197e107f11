package unwrap

import (
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

// absorbSource folds every trit it yields into the transcript.
type absorbSource struct {
	src trinary.Source
	s   *spongos.Spongos
}

func (a absorbSource) Next(n int) (trinary.Trits, error) {
	t, err := a.src.Next(n)
	if err != nil {
		return nil, err
	}
	a.s.Absorb(t)
	return t, nil
}

// decrSource decrypts what it yields with the transcript keystream. The
// input buffer is never written.
type decrSource struct {
	src trinary.Source
	s   *spongos.Spongos
}

func (d decrSource) Next(n int) (trinary.Trits, error) {
	t, err := d.src.Next(n)
	if err != nil {
		return nil, err
	}
	out := trinary.Zero(len(t))
	d.s.Decr(out, t)
	return out, nil
}
