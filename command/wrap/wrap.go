// Package wrap implements the writing pass: it serializes a layout's values
// and drives the sponge transcript that authenticates and encrypts them.
package wrap

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/pion/logging"

	"xdao.co/mam/command"
	"xdao.co/mam/link"
	"xdao.co/mam/mss"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

// Config configures a writing Context.
type Config struct {
	// Permutation drives a fresh sponge when Spongos is nil.
	Permutation spongos.Permutation

	// Spongos is the initial transcript state, shared with the reader out
	// of band. It is advanced in place.
	Spongos *spongos.Spongos

	// Rand feeds NTRU encapsulation. Defaults to crypto/rand.
	Rand io.Reader

	// SizeHint preallocates the output buffer.
	SizeHint int

	LoggerFactory logging.LoggerFactory
}

// Context is the writing command.Context.
type Context struct {
	buf  trinary.Trits
	s    *spongos.Spongos
	rand io.Reader
	log  logging.LeveledLogger
}

var _ command.Context = (*Context)(nil)

// New returns a writing Context with an empty buffer.
func New(cfg Config) (*Context, error) {
	s := cfg.Spongos
	if s == nil {
		if cfg.Permutation == nil {
			return nil, errors.New("wrap: permutation or spongos is required")
		}
		s = spongos.New(cfg.Permutation)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Context{
		buf:  make(trinary.Trits, 0, cfg.SizeHint),
		s:    s,
		rand: cfg.Rand,
		log:  cfg.LoggerFactory.NewLogger("wrap"),
	}, nil
}

// Trits returns the message written so far.
func (c *Context) Trits() trinary.Trits { return c.buf }

// Spongos returns the live transcript state.
func (c *Context) Spongos() *spongos.Spongos { return c.s }

// advance grows the buffer by n zero trits and returns them.
func (c *Context) advance(n int) trinary.Trits {
	off := len(c.buf)
	c.buf = append(c.buf, make(trinary.Trits, n)...)
	return c.buf[off:]
}

func (c *Context) Absorb(v command.Value) error {
	if e, ok := v.(command.External); ok {
		return c.absorbExternal(e)
	}
	t, err := command.Encode(v)
	if err != nil {
		return command.InvalidValue("absorb", err)
	}
	c.s.Absorb(t)
	copy(c.advance(len(t)), t)
	return nil
}

func (c *Context) absorbExternal(e command.External) error {
	v, ok := e.V.(command.Value)
	if !ok {
		return command.InvalidValue("absorb", command.ErrExternal)
	}
	t, err := command.Encode(v)
	if err != nil {
		return command.InvalidValue("absorb", err)
	}
	c.s.Absorb(t)
	return nil
}

// Squeeze writes sponge output for a tag. External tags are not written.
// An *NTrytes, bare or external, receives the output.
func (c *Context) Squeeze(v command.Tag) error {
	n, err := command.SqueezedLen(v)
	if err != nil {
		return command.InvalidValue("squeeze", err)
	}
	if e, ok := v.(command.External); ok {
		out := c.s.SqueezeN(n)
		if nt, ok := e.V.(*command.NTrytes); ok {
			copy(*nt, out)
		}
		return nil
	}
	out := c.advance(n)
	c.s.Squeeze(out)
	if nt, ok := v.(*command.NTrytes); ok {
		copy(*nt, out)
	}
	return nil
}

// Mask absorbs v and writes it encrypted.
func (c *Context) Mask(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "mask: external values cannot be masked")
	}
	t, err := command.Encode(v)
	if err != nil {
		return command.InvalidValue("mask", err)
	}
	c.s.Encr(c.advance(len(t)), t)
	return nil
}

func (c *Context) Skip(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "skip: external values cannot be skipped")
	}
	t, err := command.Encode(v)
	if err != nil {
		return command.InvalidValue("skip", err)
	}
	copy(c.advance(len(t)), t)
	return nil
}

func (c *Context) Commit() error {
	c.s.Commit()
	return nil
}

// Mssig signs the selected hash and writes the signature. The signature is
// not absorbed.
func (c *Context) Mssig(key command.MssKey, hash command.SigHash) error {
	sk, err := command.Signer(key)
	if err != nil {
		return err
	}
	n, err := command.HashLen(hash)
	if err != nil {
		return err
	}
	if err := command.CheckSigner(sk); err != nil {
		return err
	}

	var h trinary.Trits
	switch hv := hash.(type) {
	case command.MssHashSig:
		h = c.s.SqueezeN(n)
		c.s.Commit()
	case command.External:
		if nt, ok := hv.V.(*command.NTrytes); ok {
			h = trinary.Trits(*nt)
		} else {
			h = c.s.SqueezeN(n)
		}
	}

	sig, err := sk.Sign(h)
	if err != nil {
		if errors.Is(err, mss.ErrKeysExhausted) {
			return command.WrapError(command.KindKeyExhausted, command.RuleKeysExhausted, "mssig: sign failed", err)
		}
		return command.WrapError(command.KindInternal, command.RuleSignFailed, "mssig: sign failed", err)
	}
	copy(c.advance(len(sig)), sig)
	c.log.Tracef("mssig: %d keys left", sk.KeysLeft())
	return nil
}

// Ntrukem encapsulates secret to the recipient key, writes the ekey and
// absorbs it.
func (c *Context) Ntrukem(key command.NtruKey, secret *command.NTrytes) error {
	pk, err := command.RecipientKey(key)
	if err != nil {
		return err
	}
	if err := command.CheckSecret(secret); err != nil {
		return err
	}
	ekey, err := pk.Encapsulate(c.s.Permutation(), c.rand, trinary.Trits(*secret))
	if err != nil {
		return command.WrapError(command.KindInternal, command.RuleEncapsulation, "ntrukem: encapsulation failed", err)
	}
	c.s.Absorb(ekey)
	copy(c.advance(len(ekey)), ekey)
	return nil
}

// Fork runs inner on a copy of the transcript and restores the original.
func (c *Context) Fork(inner command.Spec) error {
	saved := c.s
	c.s = saved.Fork()
	err := inner(c)
	c.s = saved
	return err
}

func (c *Context) Repeated(n int, item func(ctx command.Context, i int) error) error {
	if n < 0 {
		return command.NewError(command.KindEncoding, command.RuleRepeatCount, "repeated: negative count")
	}
	for i := 0; i < n; i++ {
		if err := item(c, i); err != nil {
			return err
		}
	}
	return nil
}

// Join writes l, then joins the transcript stored for it.
func (c *Context) Join(store link.Store, l *link.Link) error {
	if l == nil {
		return command.NewError(command.KindEncoding, command.RuleInvalidValue, "join: nil link")
	}
	t, err := command.Encode(l)
	if err != nil {
		return command.InvalidValue("join", err)
	}
	saved, _, err := store.Lookup(*l)
	if err != nil {
		return command.WrapError(command.KindLink, command.RuleLinkLookup, "join: lookup "+l.String(), err)
	}
	copy(c.advance(len(t)), t)
	c.s.Join(saved)
	return nil
}

func (c *Context) Dump(format string, args ...any) error {
	c.log.Debugf(format+": size=[%d]", append(args, len(c.buf))...)
	return nil
}
