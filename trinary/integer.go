package trinary

// MaxSizetTrytes bounds the tryte count of a size-t so that every valid
// encoding fits an int64.
const MaxSizetTrytes = 13

// MaxSizet is the largest value representable by a size-t.
const MaxSizet = 2026277576509488133 // (27^13-1)/2

// MaxInt returns the largest value representable by n balanced trits, (3^n-1)/2.
func MaxInt(n int) int64 {
	var m int64
	for i := 0; i < n; i++ {
		m = m*3 + 1
	}
	return m
}

// PutInt writes v into dst as a little-endian balanced ternary integer of
// len(dst) trits. It returns ErrOverflow if v does not fit.
func PutInt(dst Trits, v int64) error {
	for i := range dst {
		r := v % 3
		if r < 0 {
			r += 3
		}
		if r == 2 {
			r = -1
		}
		dst[i] = Trit(r)
		v = (v - r) / 3
	}
	if v != 0 {
		return ErrOverflow
	}
	return nil
}

// Int decodes a little-endian balanced ternary integer.
func Int(src Trits) int64 {
	var v int64
	for i := len(src) - 1; i >= 0; i-- {
		v = v*3 + int64(src[i])
	}
	return v
}

// sizetTrytes returns the smallest d such that n <= (27^d-1)/2.
func sizetTrytes(n int) int {
	d := 0
	var m int64
	for d < MaxSizetTrytes && int64(n) > m {
		m = m*27 + 13
		d++
	}
	return d
}

// SizeofSizet returns the encoded length in trits of the size-t n:
// a trint3 tryte count followed by that many trytes.
func SizeofSizet(n int) int {
	return TritsPerTryte * (sizetTrytes(n) + 1)
}

// EncodeSizet writes n into dst, which must be SizeofSizet(n) trits long.
func EncodeSizet(dst Trits, n int) error {
	if n < 0 || int64(n) > MaxSizet {
		return ErrOverflow
	}
	d := sizetTrytes(n)
	if len(dst) != TritsPerTryte*(d+1) {
		return ErrInvalidLength
	}
	if err := PutInt(dst[:TritsPerTryte], int64(d)); err != nil {
		return err
	}
	return PutInt(dst[TritsPerTryte:], int64(n))
}

// DecodeSizet reads a size-t from src. Negative values, tryte counts above
// MaxSizetTrytes and encodings with a zero top tryte are rejected.
func DecodeSizet(src Source) (int, error) {
	t, err := src.Next(TritsPerTryte)
	if err != nil {
		return 0, err
	}
	d := int(Int(t))
	if d < 0 || d > MaxSizetTrytes {
		return 0, ErrInvalidSizet
	}
	if d == 0 {
		return 0, nil
	}
	t, err = src.Next(TritsPerTryte * d)
	if err != nil {
		return 0, err
	}
	if Int(t[len(t)-TritsPerTryte:]) == 0 {
		return 0, ErrInvalidSizet
	}
	n := Int(t)
	if n < 0 {
		return 0, ErrInvalidSizet
	}
	return int(n), nil
}
