package trinary

import "errors"

var (
	// ErrShortInput is returned when a Source has fewer trits left than requested.
	ErrShortInput = errors.New("trinary: unexpected end of input")

	// ErrInvalidTryte is returned when a tryte string contains a character outside the alphabet.
	ErrInvalidTryte = errors.New("trinary: invalid tryte character")

	// ErrInvalidLength is returned when a trit count is not a multiple of the required group size.
	ErrInvalidLength = errors.New("trinary: invalid trit length")

	// ErrOverflow is returned when an integer does not fit the requested number of trits.
	ErrOverflow = errors.New("trinary: value overflow")

	// ErrInvalidSizet is returned for malformed or non-canonical size-t encodings.
	ErrInvalidSizet = errors.New("trinary: invalid size-t encoding")

	// ErrInvalidByte is returned when an embedded byte group decodes outside [0, 255].
	ErrInvalidByte = errors.New("trinary: invalid embedded byte")
)
