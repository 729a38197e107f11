package message

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/mam/command"
	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
	"xdao.co/mam/prng"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

var testConfig = Config{Permutation: spongos.Keccak{}}

func newSigner(t *testing.T, height int, nonce string) *mss.PrivateKey {
	t.Helper()
	p, err := prng.New(spongos.Keccak{}, spongos.Hash(spongos.Keccak{}, trinary.MustFromTrytes("MSS9KEY"), prng.KeySize))
	require.NoError(t, err)
	sk, err := mss.GenerateKey(spongos.Keccak{}, p, height, trinary.MustFromTrytes(nonce))
	require.NoError(t, err)
	return sk
}

func newRecipient(t *testing.T) *ntru.PrivateKey {
	t.Helper()
	sk, err := ntru.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return sk
}

// post exercises every operation except Join and Fork.
type post struct {
	seq    command.Trint3
	author *mss.PublicKey
	nonce  command.NTrytes
	secret command.NTrytes
	count  command.Size
	tags   []command.NTrytes
	body   command.Trytes
	mac    command.Mac
}

const tagLen = 27

func newPost(t *testing.T, author *mss.PublicKey) *post {
	t.Helper()
	return &post{
		seq:    -4,
		author: author,
		nonce:  command.NTrytes(trinary.MustFromTrytes("NONCE9NONCE9NONCE9NONCE9NONCE9")),
		secret: command.NTrytes(spongos.Hash(spongos.Keccak{}, trinary.MustFromTrytes("SESSION"), ntru.KeySize)),
		count:  3,
		tags: []command.NTrytes{
			command.NTrytes(trinary.MustFromTrytes("TAGONE999")),
			command.NTrytes(trinary.MustFromTrytes("TAGTWO999")),
			command.NTrytes(trinary.MustFromTrytes("TAGTHREE9")),
		},
		body: command.Trytes(trinary.MustFromTrytes("THE9QUICK9BROWN9FOX9JUMPS9OVER9THE9LAZY9DOG")),
		mac:  81,
	}
}

// readerPost holds what a reader knows before unwrapping.
func readerPost(nonce command.NTrytes) *post {
	return &post{
		author: new(mss.PublicKey),
		nonce:  nonce,
		mac:    81,
	}
}

func postSpec(p *post, signer command.MssKey, kem command.NtruKey) command.Spec {
	return func(ctx command.Context) error {
		if err := ctx.Absorb(&p.seq); err != nil {
			return err
		}
		if err := ctx.Absorb(p.author); err != nil {
			return err
		}
		if err := ctx.Absorb(command.External{V: &p.nonce}); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		if err := ctx.Ntrukem(kem, &p.secret); err != nil {
			return err
		}
		if err := ctx.Absorb(command.External{V: &p.secret}); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		if err := ctx.Mask(&p.count); err != nil {
			return err
		}
		for len(p.tags) < int(p.count) {
			p.tags = append(p.tags, command.NTrytes(trinary.Zero(tagLen)))
		}
		if err := ctx.Repeated(int(p.count), func(c command.Context, i int) error {
			return c.Mask(&p.tags[i])
		}); err != nil {
			return err
		}
		if err := ctx.Mask(&p.body); err != nil {
			return err
		}
		if err := ctx.Dump("post body"); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		if err := ctx.Squeeze(&p.mac); err != nil {
			return err
		}
		return ctx.Mssig(signer, command.MssHashSig{})
	}
}

// note is a small layout in which every wire trit is authenticated.
type note struct {
	seq   command.Trint3
	label command.Trytes
	n     command.Size
	body  command.NTrytes
	mac   command.Mac
}

func newNote() *note {
	return &note{
		seq:   9,
		label: command.Trytes(trinary.MustFromTrytes("LABEL")),
		n:     365,
		body:  command.NTrytes(trinary.MustFromTrytes("ABCDEFGHIJKLMNOPQRSTUVWXYZ9")),
		mac:   81,
	}
}

func readerNote() *note {
	return &note{body: command.NTrytes(trinary.Zero(27 * 3)), mac: 81}
}

func noteSpec(n *note) command.Spec {
	return func(ctx command.Context) error {
		if err := ctx.Absorb(&n.seq); err != nil {
			return err
		}
		if err := ctx.Absorb(&n.label); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		if err := ctx.Mask(&n.n); err != nil {
			return err
		}
		if err := ctx.Mask(&n.body); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		return ctx.Squeeze(&n.mac)
	}
}

func flip(t trinary.Trits, i int) trinary.Trits {
	out := t.Clone()
	out[i] = trinary.Add(out[i], 1)
	return out
}
