package wrap

import (
	"crypto/rand"
	"errors"
	"testing"
	"testing/iotest"

	"xdao.co/mam/command"
	"xdao.co/mam/command/unwrap"
	"xdao.co/mam/link"
	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
	"xdao.co/mam/prng"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

func newContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := New(Config{Permutation: spongos.Keccak{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ctx
}

func TestNew_RequiresPermutation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestContext_AbsorbSkipWriteEncoding(t *testing.T) {
	ctx := newContext(t)
	body := command.Trytes(trinary.MustFromTrytes("PLAIN"))
	if err := ctx.Absorb(&body); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if err := ctx.Skip(&body); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	enc, err := command.Encode(&body)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := ctx.Trits()
	if !out[:len(enc)].Equal(enc) || !out[len(enc):].Equal(enc) {
		t.Fatalf("absorb/skip did not write the plain encoding")
	}
}

func TestContext_MaskEncrypts(t *testing.T) {
	ctx := newContext(t)
	// A fresh sponge has a zero outer state; permute once first.
	seed := command.NTrytes(trinary.MustFromTrytes("KEYSTREAM9SEED"))
	if err := ctx.Absorb(command.External{V: &seed}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if err := ctx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	secret := command.NTrytes(trinary.MustFromTrytes("SECRET9SECRET9SECRET"))
	if err := ctx.Mask(&secret); err != nil {
		t.Fatalf("Mask: %v", err)
	}
	out := ctx.Trits()
	if len(out) != len(secret) {
		t.Fatalf("mask wrote %d trits want %d", len(out), len(secret))
	}
	if out.Equal(trinary.Trits(secret)) {
		t.Fatalf("mask wrote plaintext")
	}
}

func TestContext_SqueezeExternal(t *testing.T) {
	ctx := newContext(t)
	mac := command.Mac(81)
	if err := ctx.Squeeze(&mac); err != nil {
		t.Fatalf("Squeeze: %v", err)
	}
	if len(ctx.Trits()) != 81 {
		t.Fatalf("squeeze wrote %d trits", len(ctx.Trits()))
	}

	hash := command.NTrytes(trinary.Zero(81))
	if err := ctx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := ctx.Squeeze(command.External{V: &hash}); err != nil {
		t.Fatalf("Squeeze(external): %v", err)
	}
	if len(ctx.Trits()) != 81 {
		t.Fatalf("external squeeze wrote to the wire")
	}
	if trinary.Trits(hash).IsZero() {
		t.Fatalf("external squeeze did not fill the value")
	}
}

func TestContext_ForkRestoresTranscript(t *testing.T) {
	a, b := newContext(t), newContext(t)
	x := command.NTrytes(trinary.MustFromTrytes("PARENT"))
	y := command.NTrytes(trinary.MustFromTrytes("CHILD"))
	mac := command.Mac(81)

	for _, ctx := range []*Context{a, b} {
		if err := ctx.Absorb(&x); err != nil {
			t.Fatalf("Absorb: %v", err)
		}
	}
	if err := a.Fork(func(c command.Context) error {
		if err := c.Absorb(&y); err != nil {
			return err
		}
		if err := c.Commit(); err != nil {
			return err
		}
		return c.Squeeze(&mac)
	}); err != nil {
		t.Fatalf("Fork: %v", err)
	}
	for _, ctx := range []*Context{a, b} {
		if err := ctx.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if err := ctx.Squeeze(&mac); err != nil {
			t.Fatalf("Squeeze: %v", err)
		}
	}
	ta, tb := a.Trits(), b.Trits()
	if !ta[len(ta)-81:].Equal(tb[len(tb)-81:]) {
		t.Fatalf("fork leaked into the parent transcript")
	}
	if len(ta) != len(tb)+len(y)+81 {
		t.Fatalf("fork wire output not kept: %d vs %d", len(ta), len(tb))
	}
}

func TestContext_MssigConsumesKey(t *testing.T) {
	p, err := prng.New(spongos.Keccak{}, trinary.Zero(prng.KeySize))
	if err != nil {
		t.Fatalf("prng.New: %v", err)
	}
	sk, err := mss.GenerateKey(spongos.Keccak{}, p, 1, trinary.MustFromTrytes("WRAP"))
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ctx := newContext(t)
	for i := 0; i < 2; i++ {
		if err := ctx.Mssig(sk, command.MssHashSig{}); err != nil {
			t.Fatalf("Mssig #%d: %v", i, err)
		}
	}
	if len(ctx.Trits()) != 2*mss.SigSize(1) {
		t.Fatalf("wrote %d trits", len(ctx.Trits()))
	}
	if err := ctx.Mssig(sk, command.MssHashSig{}); !command.IsKind(err, command.KindKeyExhausted) {
		t.Fatalf("third signature: got %v", err)
	}
}

func TestContext_JoinMissingLink(t *testing.T) {
	ctx := newContext(t)
	l, err := link.FromMessage(trinary.MustFromTrytes("NOWHERE"))
	if err != nil {
		t.Fatalf("FromMessage: %v", err)
	}
	err = ctx.Join(link.NewMemStore(spongos.Keccak{}), &l)
	if !command.IsKind(err, command.KindLink) {
		t.Fatalf("Join: got %v", err)
	}
	if len(ctx.Trits()) != 0 {
		t.Fatalf("failed join wrote %d trits", len(ctx.Trits()))
	}
}

func tagLayout(body *command.Trytes, tag *command.NTrytes) command.Spec {
	return func(ctx command.Context) error {
		if err := ctx.Absorb(body); err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		return ctx.Squeeze(tag)
	}
}

func TestContext_SqueezeFillsNTrytes(t *testing.T) {
	body := command.Trytes(trinary.MustFromTrytes("ABC"))
	tag := command.NTrytes(trinary.Zero(81))
	ctx := newContext(t)
	if err := tagLayout(&body, &tag)(ctx); err != nil {
		t.Fatalf("wrap: %v", err)
	}
	out := ctx.Trits()
	wire := out[len(out)-81:]
	if trinary.Trits(tag).IsZero() {
		t.Fatalf("squeezed tag was not filled")
	}
	if !trinary.Trits(tag).Equal(wire) {
		t.Fatalf("filled tag differs from the wire tag")
	}

	var rbody command.Trytes
	rtag := command.NTrytes(trinary.Zero(81))
	r, err := unwrap.New(unwrap.Config{Permutation: spongos.Keccak{}}, out)
	if err != nil {
		t.Fatalf("unwrap.New: %v", err)
	}
	if err := tagLayout(&rbody, &rtag)(r); err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if !trinary.Trits(rtag).Equal(trinary.Trits(tag)) {
		t.Fatalf("reader and writer tags differ")
	}
}

var errSignerBroken = errors.New("signer broken")

type brokenSigner struct {
	*mss.PrivateKey
}

func (brokenSigner) Sign(trinary.Trits) (trinary.Trits, error) { return nil, errSignerBroken }

func TestContext_MssigSignFailureIsInternal(t *testing.T) {
	p, err := prng.New(spongos.Keccak{}, trinary.Zero(prng.KeySize))
	if err != nil {
		t.Fatalf("prng.New: %v", err)
	}
	sk, err := mss.GenerateKey(spongos.Keccak{}, p, 1, trinary.MustFromTrytes("BROKEN"))
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ctx := newContext(t)
	err = ctx.Mssig(brokenSigner{sk}, command.MssHashSig{})
	if !command.IsKind(err, command.KindInternal) || command.RuleID(err) != command.RuleSignFailed {
		t.Fatalf("Mssig: got %v", err)
	}
	if !errors.Is(err, errSignerBroken) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestContext_NtrukemEncapsulationFailure(t *testing.T) {
	sk, err := ntru.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	errShort := errors.New("short read")
	ctx, err := New(Config{Permutation: spongos.Keccak{}, Rand: iotest.ErrReader(errShort)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	secret := command.NTrytes(trinary.Zero(ntru.KeySize))
	err = ctx.Ntrukem(sk.PublicKey(), &secret)
	if !command.IsKind(err, command.KindInternal) || command.RuleID(err) != command.RuleEncapsulation {
		t.Fatalf("Ntrukem: got %v", err)
	}
	if len(ctx.Trits()) != 0 {
		t.Fatalf("failed encapsulation wrote %d trits", len(ctx.Trits()))
	}
}
