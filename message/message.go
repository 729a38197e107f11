// Package message runs layouts through the three passes and moves the
// results in and out of message and link stores.
package message

import (
	"fmt"
	"io"

	"github.com/pion/logging"

	"xdao.co/mam/command"
	"xdao.co/mam/command/sizeof"
	"xdao.co/mam/command/unwrap"
	"xdao.co/mam/command/wrap"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

// Config is shared by Wrap and Unwrap.
type Config struct {
	// Permutation drives the transcript. It is required.
	Permutation spongos.Permutation

	// Spongos, when set, is the initial transcript state. Wrap and Unwrap
	// advance it in place so it can be stored for later joins.
	Spongos *spongos.Spongos

	// Rand feeds NTRU encapsulation in Wrap. Defaults to crypto/rand.
	Rand io.Reader

	LoggerFactory logging.LoggerFactory
}

func (cfg Config) loggerFactory() logging.LoggerFactory {
	if cfg.LoggerFactory == nil {
		return logging.NewDefaultLoggerFactory()
	}
	return cfg.LoggerFactory
}

func (cfg Config) spongos() (*spongos.Spongos, error) {
	if cfg.Spongos != nil {
		return cfg.Spongos, nil
	}
	if cfg.Permutation == nil {
		return nil, command.NewError(command.KindInternal, command.RuleInvalidValue, "message: permutation is required")
	}
	return spongos.New(cfg.Permutation), nil
}

// Sizeof returns the exact number of trits Wrap emits for spec.
func Sizeof(spec command.Spec, lf logging.LoggerFactory) (int, error) {
	ctx := sizeof.New(lf)
	if err := spec(ctx); err != nil {
		return 0, err
	}
	return ctx.Size(), nil
}

// Wrapped is the output of Wrap.
type Wrapped struct {
	Trits trinary.Trits

	// Spongos is the transcript state after the last operation.
	Spongos *spongos.Spongos
}

// Wrap sizes spec, then writes it. A length disagreement between the two
// passes is reported as a KindInternal error.
func Wrap(cfg Config, spec command.Spec) (*Wrapped, error) {
	lf := cfg.loggerFactory()
	n, err := Sizeof(spec, lf)
	if err != nil {
		return nil, err
	}
	s, err := cfg.spongos()
	if err != nil {
		return nil, err
	}
	ctx, err := wrap.New(wrap.Config{
		Spongos:       s,
		Rand:          cfg.Rand,
		SizeHint:      n,
		LoggerFactory: lf,
	})
	if err != nil {
		return nil, command.WrapError(command.KindInternal, command.RuleInvalidValue, "message: wrap setup", err)
	}
	if err := spec(ctx); err != nil {
		return nil, err
	}
	out := ctx.Trits()
	if len(out) != n {
		return nil, command.NewError(command.KindInternal, command.RuleSizeMismatch,
			fmt.Sprintf("message: wrap wrote %d trits, sizeof counted %d", len(out), n))
	}
	return &Wrapped{Trits: out, Spongos: ctx.Spongos()}, nil
}

// Unwrap reads msg with spec. Every trit must be consumed; trailing input
// is a KindDecode error. It returns the final transcript state.
func Unwrap(cfg Config, spec command.Spec, msg trinary.Trits) (*spongos.Spongos, error) {
	s, err := cfg.spongos()
	if err != nil {
		return nil, err
	}
	ctx, err := unwrap.New(unwrap.Config{Spongos: s, LoggerFactory: cfg.loggerFactory()}, msg)
	if err != nil {
		return nil, command.WrapError(command.KindInternal, command.RuleInvalidValue, "message: unwrap setup", err)
	}
	if err := spec(ctx); err != nil {
		return nil, err
	}
	if r := ctx.Remaining(); r != 0 {
		return nil, command.NewError(command.KindDecode, command.RuleTrailingInput,
			fmt.Sprintf("message: %d trailing trits", r))
	}
	return ctx.Spongos(), nil
}
