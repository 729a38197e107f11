package ntru

import (
	"github.com/cloudflare/circl/kem"

	"xdao.co/mam/trinary"
)

// PublicKey is an encapsulation key.
type PublicKey struct {
	t   trinary.Trits
	key kem.PublicKey
}

func newPublicKey(key kem.PublicKey) (*PublicKey, error) {
	b, err := key.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &PublicKey{t: trinary.FromBytes(b), key: key}, nil
}

// ParsePublicKey decodes PKSize trits.
func ParsePublicKey(t trinary.Trits) (*PublicKey, error) {
	if t.Size() != PKSize {
		return nil, ErrPublicKeySize
	}
	b, err := trinary.ToBytes(t)
	if err != nil {
		return nil, ErrInvalidKey
	}
	key, err := scheme.UnmarshalBinaryPublicKey(b)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return &PublicKey{t: t.Clone(), key: key}, nil
}

// Trits returns the encoded key. The result must not be modified.
func (pk *PublicKey) Trits() trinary.Trits { return pk.t }

// PublicKey returns pk.
func (pk *PublicKey) PublicKey() *PublicKey { return pk }

func (pk *PublicKey) Equal(o *PublicKey) bool {
	if pk == nil || o == nil {
		return pk == o
	}
	return pk.t.Equal(o.t)
}

func (pk *PublicKey) TritSize() (int, error) {
	if pk.t.Size() != PKSize {
		return 0, ErrPublicKeySize
	}
	return PKSize, nil
}

func (pk *PublicKey) EncodeTrits(dst trinary.Trits) { copy(dst, pk.t) }

func (pk *PublicKey) DecodeTrits(src trinary.Source) error {
	t, err := src.Next(PKSize)
	if err != nil {
		return err
	}
	parsed, err := ParsePublicKey(t)
	if err != nil {
		return err
	}
	*pk = *parsed
	return nil
}
