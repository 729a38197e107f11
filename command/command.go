// Package command defines the operations a message layout is written
// against and the values it moves across the wire.
//
// A layout is a Spec: a function of a Context. The same Spec is executed by
// three passes (command/sizeof, command/wrap and command/unwrap) that must
// agree trit for trit on the wire format and, for wrap and unwrap, on the
// sponge transcript.
package command

import (
	"xdao.co/mam/link"
	"xdao.co/mam/mss"
	"xdao.co/mam/ntru"
)

// Absorber places a value on the wire and folds it into the transcript.
// An External value is folded in without reaching the wire.
type Absorber interface {
	Absorb(v Value) error
}

// Squeezer draws a tag from the transcript. Readers compare non-external
// tags against the wire.
type Squeezer interface {
	Squeeze(v Tag) error
}

// Masker absorbs a value and places it on the wire encrypted.
type Masker interface {
	Mask(v Value) error
}

// Skipper places a value on the wire without touching the transcript.
type Skipper interface {
	Skip(v Value) error
}

// Committer closes the current permutation block.
type Committer interface {
	Commit() error
}

// MssSigner signs (or verifies) a hash with a Merkle signature scheme key,
// consuming one leaf per signature.
type MssSigner interface {
	Mssig(key MssKey, hash SigHash) error
}

// Encapsulator transports secret under an NTRU key. Readers receive the
// secret into the argument.
type Encapsulator interface {
	Ntrukem(key NtruKey, secret *NTrytes) error
}

// Forker runs a nested layout on a copy of the transcript. Changes the
// nested layout makes to the transcript are discarded; its wire output is
// kept.
type Forker interface {
	Fork(inner Spec) error
}

// Repeater runs item n times. n must have been placed on the wire by the
// caller beforehand.
type Repeater interface {
	Repeated(n int, item func(ctx Context, i int) error) error
}

// Joiner places l on the wire untouched by the transcript, then joins the
// transcript state stored for l. Readers decode l before the lookup.
type Joiner interface {
	Join(store link.Store, l *link.Link) error
}

// Dumper logs the pass position.
type Dumper interface {
	Dump(format string, args ...any) error
}

// Context is the full capability set a Spec runs against.
type Context interface {
	Absorber
	Squeezer
	Masker
	Skipper
	Committer
	MssSigner
	Encapsulator
	Forker
	Repeater
	Joiner
	Dumper
}

// Spec is a message layout.
type Spec func(ctx Context) error

// Signer returns the signing half of key for sizeof and wrap.
func Signer(key MssKey) (mss.Signer, error) {
	sk, ok := key.(mss.Signer)
	if !ok {
		return nil, NewError(KindEncoding, RuleKeyType, "mssig: signing requires an mss.Signer")
	}
	return sk, nil
}

// CheckSigner validates the preconditions of a signing call.
func CheckSigner(sk mss.Signer) error {
	if sk.KeysLeft() <= 0 {
		return WrapError(KindKeyExhausted, RuleKeysExhausted, "mssig: no one-time keys left", mss.ErrKeysExhausted)
	}
	return nil
}

// HashLen validates an Mssig hash argument and returns the number of trits
// it draws from the transcript; zero for an explicit External{*NTrytes}.
func HashLen(hash SigHash) (int, error) {
	var n int
	switch h := hash.(type) {
	case MssHashSig:
		return mss.HashSize, nil
	case External:
		switch v := h.V.(type) {
		case *NTrytes:
			if len(*v) != mss.HashSize {
				return 0, NewError(KindEncoding, RuleHashSize, "mssig: hash must be mss.HashSize trits")
			}
			return 0, nil
		case *Mac:
			n = int(*v)
		default:
			return 0, NewError(KindEncoding, RuleUnsupportedValue, "mssig: unsupported hash value")
		}
	default:
		return 0, NewError(KindEncoding, RuleUnsupportedValue, "mssig: unsupported hash value")
	}
	if n != mss.HashSize {
		return 0, NewError(KindEncoding, RuleHashSize, "mssig: hash must be mss.HashSize trits")
	}
	return n, nil
}

// RecipientKey returns the public key writers encapsulate to.
func RecipientKey(key NtruKey) (*ntru.PublicKey, error) {
	if key == nil {
		return nil, NewError(KindEncoding, RuleKeyType, "ntrukem: missing key")
	}
	pk := key.PublicKey()
	if pk == nil {
		return nil, NewError(KindEncoding, RuleKeyType, "ntrukem: missing public key")
	}
	if _, err := pk.TritSize(); err != nil {
		return nil, WrapError(KindEncoding, RuleInvalidValue, "ntrukem: invalid public key", err)
	}
	return pk, nil
}

// CheckSecret validates the secret argument of Ntrukem.
func CheckSecret(secret *NTrytes) error {
	if secret == nil || len(*secret) != ntru.KeySize {
		return NewError(KindEncoding, RuleSecretSize, "ntrukem: secret must be ntru.KeySize trits")
	}
	return nil
}

// InvalidValue reports a value rejected by its own TritSize.
func InvalidValue(op string, err error) error {
	return WrapError(KindEncoding, RuleInvalidValue, op+": invalid value", err)
}

// Truncated reports input that ended early or did not decode.
func Truncated(op string, err error) error {
	return WrapError(KindDecode, RuleShortInput, op+": malformed input", err)
}
