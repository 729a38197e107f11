// Package trinary implements balanced ternary primitives: trits, trytes,
// fixed-width integers and the variable-width size-t encoding used on the wire.
package trinary

// Trit is a balanced ternary digit: -1, 0 or 1.
type Trit int8

// Trits is a sequence of trits. The zero value is an empty sequence.
type Trits []Trit

const (
	// TritsPerTryte is the number of trits in one tryte.
	TritsPerTryte = 3

	// TritsPerByte is the number of trits used to embed one byte (see FromBytes).
	TritsPerByte = 6
)

// Zero returns n zero trits.
func Zero(n int) Trits {
	return make(Trits, n)
}

// Size returns the number of trits.
func (t Trits) Size() int { return len(t) }

// Clone returns an independent copy of t.
func (t Trits) Clone() Trits {
	if t == nil {
		return nil
	}
	out := make(Trits, len(t))
	copy(out, t)
	return out
}

// Equal reports whether t and o hold the same trits.
func (t Trits) Equal(o Trits) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether every trit of t is zero.
func (t Trits) IsZero() bool {
	for _, x := range t {
		if x != 0 {
			return false
		}
	}
	return true
}

// Valid reports whether every element of t is a balanced trit.
func (t Trits) Valid() bool {
	for _, x := range t {
		if x < -1 || x > 1 {
			return false
		}
	}
	return true
}

// String renders t as trytes when possible and as a -0+ digit string otherwise.
func (t Trits) String() string {
	if s, err := t.Trytes(); err == nil {
		return s
	}
	b := make([]byte, len(t))
	for i, x := range t {
		switch x {
		case -1:
			b[i] = '-'
		case 1:
			b[i] = '+'
		default:
			b[i] = '0'
		}
	}
	return string(b)
}

// Add returns a+b mod 3 in balanced representation.
func Add(a, b Trit) Trit {
	s := a + b
	switch {
	case s > 1:
		return s - 3
	case s < -1:
		return s + 3
	}
	return s
}

// Sub returns a-b mod 3 in balanced representation.
func Sub(a, b Trit) Trit {
	return Add(a, -b)
}
