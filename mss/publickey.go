package mss

import "xdao.co/mam/trinary"

// PublicKey is the Merkle root of a PrivateKey.
type PublicKey struct {
	t trinary.Trits
}

// NewPublicKey wraps PKSize trits as a public key.
func NewPublicKey(t trinary.Trits) (*PublicKey, error) {
	if t.Size() != PKSize {
		return nil, ErrPublicKeySize
	}
	return &PublicKey{t: t.Clone()}, nil
}

// Trits returns the encoded key. The result must not be modified.
func (pk *PublicKey) Trits() trinary.Trits { return pk.t }

// PublicKey returns pk, so a bare public key can be used wherever only the
// verifying half of a key pair is needed.
func (pk *PublicKey) PublicKey() *PublicKey { return pk }

// Equal reports whether pk and o encode the same key.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	if pk == nil || o == nil {
		return pk == o
	}
	return pk.t.Equal(o.t)
}

// TritSize returns PKSize, or ErrPublicKeySize for a malformed key.
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
	pk.t = t.Clone()
	return nil
}
