// Package sizeof implements the size-accounting pass: it counts the trits
// the writing pass will emit for the same layout without touching any
// buffer or sponge.
package sizeof

import (
	"github.com/pion/logging"

	"xdao.co/mam/command"
	"xdao.co/mam/link"
	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
)

// Context is the size-accounting command.Context.
type Context struct {
	size int
	log  logging.LeveledLogger
}

var _ command.Context = (*Context)(nil)

// New returns a Context with a zero count. A nil factory uses the pion
// default.
func New(lf logging.LoggerFactory) *Context {
	if lf == nil {
		lf = logging.NewDefaultLoggerFactory()
	}
	return &Context{log: lf.NewLogger("sizeof")}
}

// Size returns the trit count so far.
func (c *Context) Size() int { return c.size }

func (c *Context) add(op string, v command.Value) error {
	n, err := v.TritSize()
	if err != nil {
		return command.InvalidValue(op, err)
	}
	c.size += n
	return nil
}

// Absorb counts v's encoding; External values count zero.
func (c *Context) Absorb(v command.Value) error { return c.add("absorb", v) }

// Squeeze counts the tag length unless it is External.
func (c *Context) Squeeze(v command.Tag) error {
	n, err := command.SqueezedLen(v)
	if err != nil {
		return command.InvalidValue("squeeze", err)
	}
	if _, ok := v.(command.External); !ok {
		c.size += n
	}
	return nil
}

// Mask counts like Absorb. External values cannot be masked.
func (c *Context) Mask(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "mask: external values cannot be masked")
	}
	return c.add("mask", v)
}

func (c *Context) Skip(v command.Value) error {
	if _, ok := v.(command.External); ok {
		return command.NewError(command.KindEncoding, command.RuleUnsupportedValue, "skip: external values cannot be skipped")
	}
	return c.add("skip", v)
}

func (c *Context) Commit() error { return nil }

// Mssig counts mss.SigSize for the signer's height. The signer must have a
// leaf left.
func (c *Context) Mssig(key command.MssKey, hash command.SigHash) error {
	sk, err := command.Signer(key)
	if err != nil {
		return err
	}
	if _, err := command.HashLen(hash); err != nil {
		return err
	}
	if err := command.CheckSigner(sk); err != nil {
		return err
	}
	c.size += mss.SigSize(sk.Height())
	return nil
}

// Ntrukem counts ntru.EKeySize.
func (c *Context) Ntrukem(key command.NtruKey, secret *command.NTrytes) error {
	if _, err := command.RecipientKey(key); err != nil {
		return err
	}
	if err := command.CheckSecret(secret); err != nil {
		return err
	}
	c.size += ntru.EKeySize
	return nil
}

// Fork counts the nested layout in place.
func (c *Context) Fork(inner command.Spec) error { return inner(c) }

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

// Join counts the link; the store is not consulted.
func (c *Context) Join(store link.Store, l *link.Link) error {
	if l == nil {
		return command.NewError(command.KindEncoding, command.RuleInvalidValue, "join: nil link")
	}
	return c.add("join", l)
}

func (c *Context) Dump(format string, args ...any) error {
	c.log.Debugf(format+": size=[%d]", append(args, c.size)...)
	return nil
}
