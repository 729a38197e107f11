// Package unwrap implements the reading pass: it parses a wrapped message,
// mirrors the writer's sponge transcript, decrypts masked values and
// rejects any tag or signature that does not verify.
package unwrap

import (
	"errors"

	"github.com/pion/logging"

	"xdao.co/mam/command"
	"xdao.co/mam/link"
	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

// Config configures a reading Context.
type Config struct {
	// Permutation drives a fresh sponge when Spongos is nil.
	Permutation spongos.Permutation

	// Spongos is the initial transcript state, identical to the writer's.
	// It is advanced in place.
	Spongos *spongos.Spongos

	LoggerFactory logging.LoggerFactory
}

// Context is the reading command.Context.
type Context struct {
	src *trinary.SliceSource
	s   *spongos.Spongos
	log logging.LeveledLogger
}

var _ command.Context = (*Context)(nil)

// New returns a reading Context positioned at the start of msg. msg is
// never modified.
func New(cfg Config, msg trinary.Trits) (*Context, error) {
	s := cfg.Spongos
	if s == nil {
		if cfg.Permutation == nil {
			return nil, errors.New("unwrap: permutation or spongos is required")
		}
		s = spongos.New(cfg.Permutation)
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Context{
		src: trinary.NewSource(msg),
		s:   s,
		log: cfg.LoggerFactory.NewLogger("unwrap"),
	}, nil
}

// Remaining returns the number of unread trits.
func (c *Context) Remaining() int { return c.src.Remaining() }

// Spongos returns the live transcript state.
func (c *Context) Spongos() *spongos.Spongos { return c.s }

// Absorb reads v and folds it into the transcript. An External value is
// folded in from the caller's copy and nothing is read.
func (c *Context) Absorb(v command.Value) error {
	if e, ok := v.(command.External); ok {
		ev, ok := e.V.(command.Value)
		if !ok {
			return command.InvalidValue("absorb", command.ErrExternal)
		}
		t, err := command.Encode(ev)
		if err != nil {
			return command.InvalidValue("absorb", err)
		}
		c.s.Absorb(t)
		return nil
	}
	if err := v.DecodeTrits(absorbSource{src: c.src, s: c.s}); err != nil {
		return command.Truncated("absorb", err)
	}
	return nil
}

// Squeeze recomputes the tag and compares it against the wire unless it is
// External. An *NTrytes receives the squeezed value.
func (c *Context) Squeeze(v command.Tag) error {
	n, err := command.SqueezedLen(v)
	if err != nil {
		return command.InvalidValue("squeeze", err)
	}
	want := c.s.SqueezeN(n)
	if e, ok := v.(command.External); ok {
		if nt, ok := e.V.(*command.NTrytes); ok {
			copy(*nt, want)
		}
		return nil
	}
	got, err := c.src.Next(n)
	if err != nil {
		return command.Truncated("squeeze", err)
	}
	if !got.Equal(want) {
		return command.NewError(command.KindAuth, command.RuleMacMismatch, "squeeze: tag mismatch")
	}
	if nt, ok := v.(*command.NTrytes); ok {
		copy(*nt, want)
	}
	return nil
}

// Mask reads and decrypts v.
func (c *Context) Mask(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "mask: external values cannot be masked")
	}
	if err := v.DecodeTrits(decrSource{src: c.src, s: c.s}); err != nil {
		return command.Truncated("mask", err)
	}
	return nil
}

func (c *Context) Skip(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "skip: external values cannot be skipped")
	}
	if err := v.DecodeTrits(c.src); err != nil {
		return command.Truncated("skip", err)
	}
	return nil
}

func (c *Context) Commit() error {
	c.s.Commit()
	return nil
}

// Mssig reads a signature and verifies it over the selected hash against
// key's public key.
func (c *Context) Mssig(key command.MssKey, hash command.SigHash) error {
	if key == nil || key.PublicKey() == nil {
		return command.NewError(command.KindEncoding, command.RuleKeyType, "mssig: missing public key")
	}
	n, err := command.HashLen(hash)
	if err != nil {
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

	hdr, err := c.src.Next(mss.SKNSize)
	if err != nil {
		return command.Truncated("mssig", err)
	}
	height, _, err := mss.ParseHeader(hdr)
	if err != nil {
		return command.WrapError(command.KindAuth, command.RuleBadSignature, "mssig: bad signature header", err)
	}
	rest, err := c.src.Next(mss.SigSize(height) - mss.SKNSize)
	if err != nil {
		return command.Truncated("mssig", err)
	}
	sig := make(trinary.Trits, 0, mss.SigSize(height))
	sig = append(append(sig, hdr...), rest...)

	if err := mss.Verify(c.s.Permutation(), key.PublicKey(), h, sig); err != nil {
		return command.WrapError(command.KindAuth, command.RuleBadSignature, "mssig: signature does not verify", err)
	}
	return nil
}

// Ntrukem reads and absorbs an ekey, then decapsulates it into secret.
func (c *Context) Ntrukem(key command.NtruKey, secret *command.NTrytes) error {
	sk, ok := key.(*ntru.PrivateKey)
	if !ok || sk == nil {
		return command.NewError(command.KindEncoding, command.RuleKeyType, "ntrukem: decapsulation requires an *ntru.PrivateKey")
	}
	if secret == nil {
		return command.NewError(command.KindEncoding, command.RuleSecretSize, "ntrukem: nil secret")
	}
	ekey, err := c.src.Next(ntru.EKeySize)
	if err != nil {
		return command.Truncated("ntrukem", err)
	}
	c.s.Absorb(ekey)
	out, err := sk.Decapsulate(c.s.Permutation(), ekey)
	if err != nil {
		return command.WrapError(command.KindAuth, command.RuleDecapsulation, "ntrukem: decapsulation failed", err)
	}
	*secret = command.NTrytes(out)
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

// Join reads l, then joins the transcript stored for it.
func (c *Context) Join(store link.Store, l *link.Link) error {
	if l == nil {
		return command.NewError(command.KindEncoding, command.RuleInvalidValue, "join: nil link")
	}
	if err := l.DecodeTrits(c.src); err != nil {
		return command.Truncated("join", err)
	}
	saved, _, err := store.Lookup(*l)
	if err != nil {
		return command.WrapError(command.KindLink, command.RuleLinkLookup, "join: lookup "+l.String(), err)
	}
	c.s.Join(saved)
	return nil
}

func (c *Context) Dump(format string, args ...any) error {
	c.log.Debugf(format+": size=[%d]", append(args, c.src.Offset())...)
	return nil
}
