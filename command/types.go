package command

import (
	"errors"

	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
	"xdao.co/mam/trinary"
)

var (
	ErrTrint3Range = errors.New("command: trint3 out of range [-13, 13]")
	ErrSizeRange   = errors.New("command: size out of range")
	ErrTryteLength = errors.New("command: trit length is not a multiple of 3")
	ErrExternal    = errors.New("command: external wraps an unsupported value")
)

// Value is a wire-level value.
//
// TritSize validates the value and returns its encoded length. EncodeTrits
// writes exactly that many trits to dst. DecodeTrits reads the value back,
// taking its length from the wire or, for fixed-size values, from the
// receiver; it must copy whatever it keeps.
type Value interface {
	TritSize() (int, error)
	EncodeTrits(dst trinary.Trits)
	DecodeTrits(src trinary.Source) error
}

// Encode validates v and returns its encoding.
func Encode(v Value) (trinary.Trits, error) {
	n, err := v.TritSize()
	if err != nil {
		return nil, err
	}
	t := trinary.Zero(n)
	v.EncodeTrits(t)
	return t, nil
}

// Trint3 is an integer in [-13, 13] encoded in 3 trits.
type Trint3 int8

func (v *Trint3) TritSize() (int, error) {
	if *v < -13 || *v > 13 {
		return 0, ErrTrint3Range
	}
	return 3, nil
}

func (v *Trint3) EncodeTrits(dst trinary.Trits) { _ = trinary.PutInt(dst[:3], int64(*v)) }

func (v *Trint3) DecodeTrits(src trinary.Source) error {
	t, err := src.Next(3)
	if err != nil {
		return err
	}
	*v = Trint3(trinary.Int(t))
	return nil
}

// Size is a non-negative integer in the variable-length size-t encoding.
type Size int

func (v *Size) TritSize() (int, error) {
	if *v < 0 || int64(*v) > trinary.MaxSizet {
		return 0, ErrSizeRange
	}
	return trinary.SizeofSizet(int(*v)), nil
}

func (v *Size) EncodeTrits(dst trinary.Trits) { _ = trinary.EncodeSizet(dst, int(*v)) }

func (v *Size) DecodeTrits(src trinary.Source) error {
	n, err := trinary.DecodeSizet(src)
	if err != nil {
		return err
	}
	*v = Size(n)
	return nil
}

// Trytes is a self-describing trit string: its length in trytes as a Size,
// then the content.
type Trytes trinary.Trits

func (v *Trytes) TritSize() (int, error) {
	n := len(*v)
	if n%trinary.TritsPerTryte != 0 {
		return 0, ErrTryteLength
	}
	return trinary.SizeofSizet(n/trinary.TritsPerTryte) + n, nil
}

func (v *Trytes) EncodeTrits(dst trinary.Trits) {
	k := trinary.SizeofSizet(len(*v) / trinary.TritsPerTryte)
	_ = trinary.EncodeSizet(dst[:k], len(*v)/trinary.TritsPerTryte)
	copy(dst[k:], *v)
}

func (v *Trytes) DecodeTrits(src trinary.Source) error {
	n, err := trinary.DecodeSizet(src)
	if err != nil {
		return err
	}
	t, err := src.Next(n * trinary.TritsPerTryte)
	if err != nil {
		return err
	}
	*v = Trytes(t.Clone())
	return nil
}

// NTrytes is a fixed-length trit string. Its length is known from context
// and never encoded; decoding fills the receiver's existing length.
type NTrytes trinary.Trits

func (v *NTrytes) TritSize() (int, error) {
	if len(*v)%trinary.TritsPerTryte != 0 {
		return 0, ErrTryteLength
	}
	return len(*v), nil
}

func (v *NTrytes) EncodeTrits(dst trinary.Trits) { copy(dst, *v) }

func (v *NTrytes) DecodeTrits(src trinary.Source) error {
	t, err := src.Next(len(*v))
	if err != nil {
		return err
	}
	copy(*v, t)
	return nil
}

// Tag is a value produced by Squeeze: *NTrytes (filled with sponge output),
// *Mac, or an External wrapping either.
type Tag interface {
	tagSize() (int, error)
}

func (v *NTrytes) tagSize() (int, error) { return v.TritSize() }

// Mac is a squeezed authentication tag of the given trit length.
type Mac int

func (m *Mac) tagSize() (int, error) {
	if *m < 0 || *m%trinary.TritsPerTryte != 0 {
		return 0, ErrTryteLength
	}
	return int(*m), nil
}

// External marks a value known to both sides out of band. It occupies no
// wire trits; Absorb still folds V into the transcript, and Squeeze fills V
// without writing it.
type External struct {
	V any
}

// TritSize validates V as an absorbable value and reports zero wire trits.
// A Mac is only meaningful as a squeezed tag and is rejected here.
func (e External) TritSize() (int, error) {
	v, ok := e.V.(Value)
	if !ok {
		return 0, ErrExternal
	}
	if _, err := v.TritSize(); err != nil {
		return 0, err
	}
	return 0, nil
}

func (External) EncodeTrits(trinary.Trits) {}

func (External) DecodeTrits(trinary.Source) error { return nil }

func (e External) tagSize() (int, error) {
	t, ok := e.V.(Tag)
	if !ok {
		return 0, ErrExternal
	}
	if _, err := t.tagSize(); err != nil {
		return 0, err
	}
	return 0, nil
}

// SqueezedLen returns the number of trits Squeeze draws from the sponge for t,
// whether or not they reach the wire.
func SqueezedLen(t Tag) (int, error) {
	if e, ok := t.(External); ok {
		inner, ok := e.V.(Tag)
		if !ok {
			return 0, ErrExternal
		}
		return inner.tagSize()
	}
	return t.tagSize()
}

// SigHash selects the hash an Mssig call signs: External{*NTrytes},
// External{*Mac} or MssHashSig{}.
type SigHash interface {
	sigHash()
}

func (External) sigHash() {}

// MssHashSig signs a hash squeezed from the transcript at that point: an
// external mss.HashSize squeeze, then a commit. Only the signature is on the
// wire.
type MssHashSig struct{}

func (MssHashSig) sigHash() {}

// MssKey is the key argument of Mssig. Writers pass an mss.Signer; readers
// pass anything exposing the verifying key.
type MssKey interface {
	PublicKey() *mss.PublicKey
}

// NtruKey is the key argument of Ntrukem. Writers pass the recipient's
// public key; readers pass their *ntru.PrivateKey.
type NtruKey interface {
	PublicKey() *ntru.PublicKey
}
