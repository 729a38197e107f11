package command

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindEncoding marks a value that violates a wire invariant.
	KindEncoding Kind = "Encoding"
	// KindDecode marks truncated or malformed input.
	KindDecode Kind = "Decode"
	// KindKeyExhausted marks a signer with no one-time keys left.
	KindKeyExhausted Kind = "KeyExhausted"
	// KindAuth marks a MAC, signature or encapsulation that failed to verify.
	KindAuth Kind = "Auth"
	// KindLink marks a link that could not be resolved.
	KindLink Kind = "Link"
	// KindInternal marks a broken invariant between passes.
	KindInternal Kind = "Internal"
)

// Stable rule identifiers.
const (
	RuleInvalidValue     = "MAM-ENC-001"
	RuleUnsupportedValue = "MAM-ENC-002"
	RuleHashSize         = "MAM-ENC-003"
	RuleKeyType          = "MAM-ENC-004"
	RuleSecretSize       = "MAM-ENC-005"
	RuleRepeatCount      = "MAM-ENC-006"
	RuleShortInput       = "MAM-DEC-001"
	RuleTrailingInput    = "MAM-DEC-002"
	RuleKeysExhausted    = "MAM-KEY-001"
	RuleMacMismatch      = "MAM-AUTH-001"
	RuleBadSignature     = "MAM-AUTH-002"
	RuleDecapsulation    = "MAM-AUTH-003"
	RuleLinkLookup       = "MAM-LINK-001"
	RuleSizeMismatch     = "MAM-INT-001"
	RuleSignFailed       = "MAM-INT-002"
	RuleEncapsulation    = "MAM-INT-003"
)

// Error is the structured error returned by every pass.
//
// RuleID names the violated invariant. Message is intended for humans; do
// not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error without a cause.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error wrapping cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
