package trinary

// FromBytes embeds b into trits, six balanced trits per byte holding b-128.
// It is used to carry foreign binary material such as lattice ciphertexts
// and content identifiers.
func FromBytes(b []byte) Trits {
	out := make(Trits, len(b)*TritsPerByte)
	for i, x := range b {
		_ = PutInt(out[i*TritsPerByte:(i+1)*TritsPerByte], int64(x)-128)
	}
	return out
}

// ToBytes reverses FromBytes.
func ToBytes(t Trits) ([]byte, error) {
	if len(t)%TritsPerByte != 0 {
		return nil, ErrInvalidLength
	}
	out := make([]byte, len(t)/TritsPerByte)
	for i := range out {
		v := Int(t[i*TritsPerByte:(i+1)*TritsPerByte]) + 128
		if v < 0 || v > 255 {
			return nil, ErrInvalidByte
		}
		out[i] = byte(v)
	}
	return out, nil
}
