package trinary

// Alphabet maps tryte values 0..13 to '9','A'..'M' and -13..-1 to 'N'..'Z'.
const Alphabet = "9ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Trytes renders t as a tryte string. len(t) must be a multiple of 3.
func (t Trits) Trytes() (string, error) {
	if len(t)%TritsPerTryte != 0 {
		return "", ErrInvalidLength
	}
	out := make([]byte, len(t)/TritsPerTryte)
	for i := range out {
		v := int(Int(t[i*TritsPerTryte : (i+1)*TritsPerTryte]))
		if v < 0 {
			v += 27
		}
		out[i] = Alphabet[v]
	}
	return string(out), nil
}

// FromTrytes parses a tryte string.
func FromTrytes(s string) (Trits, error) {
	out := make(Trits, len(s)*TritsPerTryte)
	for i := 0; i < len(s); i++ {
		v, ok := tryteValue(s[i])
		if !ok {
			return nil, ErrInvalidTryte
		}
		PutInt(out[i*TritsPerTryte:(i+1)*TritsPerTryte], int64(v))
	}
	return out, nil
}

// MustFromTrytes is like FromTrytes but panics on error.
func MustFromTrytes(s string) Trits {
	t, err := FromTrytes(s)
	if err != nil {
		panic(err)
	}
	return t
}

func tryteValue(c byte) (int, bool) {
	switch {
	case c == '9':
		return 0, true
	case c >= 'A' && c <= 'M':
		return int(c-'A') + 1, true
	case c >= 'N' && c <= 'Z':
		return int(c-'N') - 13, true
	}
	return 0, false
}
