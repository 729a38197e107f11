// Package ntru implements the lattice key encapsulation used to transport a
// session secret to a recipient.
//
// The lattice arithmetic is ML-KEM-768 from circl. A KeySize-trit secret is
// encrypted under a spongos keyed with the KEM shared secret and the
// recipient's public key, and authenticated with a tag:
//
//	ekey = kem ciphertext | encrypted secret[KeySize] | tag[81]
package ntru

import (
	"errors"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

const (
	// KeySize is the size in trits of an encapsulated secret.
	KeySize = 243

	tagSize = 81
)

var scheme = mlkem768.Scheme()

var (
	// PKSize is the encoded public key size in trits.
	PKSize = scheme.PublicKeySize() * trinary.TritsPerByte

	ctSize = scheme.CiphertextSize() * trinary.TritsPerByte

	// EKeySize is the encapsulated secret size in trits.
	EKeySize = ctSize + KeySize + tagSize
)

var (
	ErrKeySize       = errors.New("ntru: secret must be 243 trits")
	ErrPublicKeySize = errors.New("ntru: invalid public key size")
	ErrInvalidKey    = errors.New("ntru: invalid public key")
	ErrEKeySize      = errors.New("ntru: invalid encapsulated key size")
	ErrDecapsulation = errors.New("ntru: decapsulation failed")
)

// PrivateKey is a decapsulation key.
type PrivateKey struct {
	key kem.PrivateKey
	pk  *PublicKey
}

// GenerateKey derives a key pair from seed material read from rand.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	seed := make([]byte, scheme.SeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, err
	}
	pub, priv := scheme.DeriveKeyPair(seed)
	pk, err := newPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: priv, pk: pk}, nil
}

func (sk *PrivateKey) PublicKey() *PublicKey { return sk.pk }

// keySpongos returns the spongos that encrypts the secret for one
// encapsulation.
func keySpongos(f spongos.Permutation, ss []byte, pk *PublicKey) *spongos.Spongos {
	k := spongos.New(f)
	k.Absorb(trinary.FromBytes(ss))
	k.Absorb(pk.t)
	k.Commit()
	return k
}

// Encapsulate encrypts secret to pk. Encapsulation randomness is read from rand.
func (pk *PublicKey) Encapsulate(f spongos.Permutation, rand io.Reader, secret trinary.Trits) (trinary.Trits, error) {
	if secret.Size() != KeySize {
		return nil, ErrKeySize
	}
	if pk.key == nil {
		return nil, ErrInvalidKey
	}
	seed := make([]byte, scheme.EncapsulationSeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, err
	}
	ct, ss, err := scheme.EncapsulateDeterministically(pk.key, seed)
	if err != nil {
		return nil, err
	}

	ekey := trinary.Zero(EKeySize)
	copy(ekey, trinary.FromBytes(ct))
	k := keySpongos(f, ss, pk)
	k.Encr(ekey[ctSize:ctSize+KeySize], secret)
	k.Commit()
	k.Squeeze(ekey[ctSize+KeySize:])
	return ekey, nil
}

// Decapsulate recovers the secret from ekey. Any ciphertext not produced for
// sk's public key fails with ErrDecapsulation.
func (sk *PrivateKey) Decapsulate(f spongos.Permutation, ekey trinary.Trits) (trinary.Trits, error) {
	if ekey.Size() != EKeySize {
		return nil, ErrEKeySize
	}
	ct, err := trinary.ToBytes(ekey[:ctSize])
	if err != nil {
		return nil, ErrDecapsulation
	}
	ss, err := scheme.Decapsulate(sk.key, ct)
	if err != nil {
		return nil, ErrDecapsulation
	}

	k := keySpongos(f, ss, sk.pk)
	secret := trinary.Zero(KeySize)
	k.Decr(secret, ekey[ctSize:ctSize+KeySize])
	k.Commit()
	if !k.SqueezeN(tagSize).Equal(ekey[ctSize+KeySize:]) {
		return nil, ErrDecapsulation
	}
	return secret, nil
}
