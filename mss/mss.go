// Package mss implements the Merkle signature scheme over Winternitz
// one-time keys.
//
// A private key of height d holds 2^d one-time keys. Every Sign consumes the
// next unused leaf; once all leaves are used the key can no longer sign and
// a new key must be generated.
//
// Signature layout (trits):
//
//	height[4] | leaf index[14] | one-time signature[WotsSigSize] | auth path[d*PKSize]
package mss

import (
	"errors"

	"xdao.co/mam/prng"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

const (
	// PKSize is the public key (Merkle root) size in trits.
	PKSize = 243

	// MaxHeight is the largest supported Merkle tree height.
	MaxHeight = 20

	heightSize = 4
	sknSize    = 14

	// SKNSize is the signature header size in trits.
	SKNSize = heightSize + sknSize
)

var (
	ErrKeysExhausted    = errors.New("mss: all one-time keys have been used")
	ErrHashSize         = errors.New("mss: hash must be 234 trits")
	ErrPublicKeySize    = errors.New("mss: public key must be 243 trits")
	ErrInvalidHeight    = errors.New("mss: invalid tree height")
	ErrInvalidSignature = errors.New("mss: invalid signature")
)

// SigSize returns the signature size in trits for a tree of the given height.
func SigSize(height int) int {
	return SKNSize + WotsSigSize + PKSize*height
}

// Signer is one-time key material able to sign hashes.
//
// Sign MUST consume exactly one leaf per successful call and MUST fail with
// ErrKeysExhausted once KeysLeft reaches zero.
type Signer interface {
	Height() int
	KeysLeft() int
	Sign(hash trinary.Trits) (trinary.Trits, error)
	PublicKey() *PublicKey
}

// PrivateKey is a Merkle tree of one-time keys.
type PrivateKey struct {
	f      spongos.Permutation
	prng   *prng.Prng
	nonce  trinary.Trits
	height int
	skn    int
	// nodes uses heap layout: nodes[1] is the root, leaves start at 1<<height.
	nodes []trinary.Trits
	pk    *PublicKey
}

var _ Signer = (*PrivateKey)(nil)

// GenerateKey builds a key of the given height. Leaf keys are derived from
// p and nonce, so the same inputs always yield the same tree.
func GenerateKey(f spongos.Permutation, p *prng.Prng, height int, nonce trinary.Trits) (*PrivateKey, error) {
	if height < 0 || height > MaxHeight {
		return nil, ErrInvalidHeight
	}
	sk := &PrivateKey{
		f:      f,
		prng:   p,
		nonce:  nonce.Clone(),
		height: height,
		nodes:  make([]trinary.Trits, 2<<height),
	}
	leaves := 1 << height
	for i := 0; i < leaves; i++ {
		sk.nodes[leaves+i] = wotsPublicKey(f, sk.leafKey(i))
	}
	for i := leaves - 1; i >= 1; i-- {
		sk.nodes[i] = hashNodes(f, sk.nodes[2*i], sk.nodes[2*i+1])
	}
	sk.pk = &PublicKey{t: sk.nodes[1].Clone()}
	return sk, nil
}

func (sk *PrivateKey) leafKey(i int) trinary.Trits {
	idx := trinary.Zero(sknSize)
	_ = trinary.PutInt(idx, int64(i))
	n := append(sk.nonce.Clone(), idx...)
	return sk.prng.Gen(n, WotsSigSize)
}

func hashNodes(f spongos.Permutation, left, right trinary.Trits) trinary.Trits {
	buf := make(trinary.Trits, 0, 2*PKSize)
	buf = append(buf, left...)
	buf = append(buf, right...)
	return spongos.Hash(f, buf, PKSize)
}

func (sk *PrivateKey) Height() int { return sk.height }

// KeysLeft returns the number of unused one-time keys.
func (sk *PrivateKey) KeysLeft() int { return (1 << sk.height) - sk.skn }

func (sk *PrivateKey) PublicKey() *PublicKey { return sk.pk }

// Sign signs hash with the next unused one-time key.
func (sk *PrivateKey) Sign(hash trinary.Trits) (trinary.Trits, error) {
	if hash.Size() != HashSize {
		return nil, ErrHashSize
	}
	if sk.KeysLeft() <= 0 {
		return nil, ErrKeysExhausted
	}
	sig := trinary.Zero(SigSize(sk.height))
	_ = trinary.PutInt(sig[:heightSize], int64(sk.height))
	_ = trinary.PutInt(sig[heightSize:SKNSize], int64(sk.skn))
	copy(sig[SKNSize:], wotsSign(sk.f, sk.leafKey(sk.skn), hash))

	apath := sig[SKNSize+WotsSigSize:]
	idx := (1 << sk.height) + sk.skn
	for level := 0; level < sk.height; level++ {
		copy(apath[level*PKSize:], sk.nodes[idx^1])
		idx >>= 1
	}
	sk.skn++
	return sig, nil
}

// ParseHeader decodes the height and leaf index from a signature prefix of
// at least SKNSize trits.
func ParseHeader(hdr trinary.Trits) (height, skn int, err error) {
	if hdr.Size() < SKNSize {
		return 0, 0, ErrInvalidSignature
	}
	height = int(trinary.Int(hdr[:heightSize]))
	if height < 0 || height > MaxHeight {
		return 0, 0, ErrInvalidHeight
	}
	skn = int(trinary.Int(hdr[heightSize:SKNSize]))
	if skn < 0 || skn >= 1<<height {
		return 0, 0, ErrInvalidSignature
	}
	return height, skn, nil
}

// Verify checks sig over hash against pk.
func Verify(f spongos.Permutation, pk *PublicKey, hash, sig trinary.Trits) error {
	if pk == nil || pk.t.Size() != PKSize {
		return ErrPublicKeySize
	}
	if hash.Size() != HashSize {
		return ErrHashSize
	}
	height, skn, err := ParseHeader(sig)
	if err != nil {
		return err
	}
	if sig.Size() != SigSize(height) {
		return ErrInvalidSignature
	}
	node := wotsRecover(f, hash, sig[SKNSize:SKNSize+WotsSigSize])
	apath := sig[SKNSize+WotsSigSize:]
	for level := 0; level < height; level++ {
		sib := apath[level*PKSize : (level+1)*PKSize]
		if skn&1 == 0 {
			node = hashNodes(f, node, sib)
		} else {
			node = hashNodes(f, sib, node)
		}
		skn >>= 1
	}
	if !node.Equal(pk.t) {
		return ErrInvalidSignature
	}
	return nil
}
