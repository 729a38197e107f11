package spongos

import (
	"golang.org/x/crypto/sha3"

	"xdao.co/mam/trinary"
)

// Permutation is the state transformation driving a Spongos.
//
// Transform MUST be deterministic and MUST rewrite all Width trits of state
// in place. Implementations are injected at construction; there is no
// process-wide default.
type Permutation interface {
	Transform(state trinary.Trits)
}

// keccakCustomization separates the sponge's cSHAKE instances from any other
// use of cSHAKE256 in the process.
var keccakCustomization = []byte("xdao.co/mam spongos v1")

// Keccak maps a trinary state through cSHAKE256. The state is packed five
// trits per byte, hashed, and rebuilt from the XOF output by rejection
// sampling bytes below 243, so every output trit is uniform.
type Keccak struct{}

func (Keccak) Transform(state trinary.Trits) {
	h := sha3.NewCShake256(nil, keccakCustomization)
	_, _ = h.Write(pack5(state))

	var buf [168]byte
	i := 0
	for i < len(state) {
		_, _ = h.Read(buf[:])
		for _, b := range buf {
			if b >= 243 {
				continue
			}
			for j := 0; j < 5 && i < len(state); j++ {
				state[i] = trinary.Trit(b%3) - 1
				b /= 3
				i++
			}
			if i == len(state) {
				break
			}
		}
	}
}

// pack5 packs trits five per byte, each byte holding a value in [0, 242].
func pack5(t trinary.Trits) []byte {
	out := make([]byte, (len(t)+4)/5)
	for i := range out {
		var v byte
		for j := 4; j >= 0; j-- {
			v *= 3
			if k := i*5 + j; k < len(t) {
				v += byte(t[k] + 1)
			} else {
				v++
			}
		}
		out[i] = v
	}
	return out
}

// unpack5 reverses pack5 for n trits.
func unpack5(b []byte, n int) (trinary.Trits, bool) {
	if len(b) != (n+4)/5 {
		return nil, false
	}
	out := make(trinary.Trits, n)
	for i, v := range b {
		if v >= 243 {
			return nil, false
		}
		for j := 0; j < 5; j++ {
			if k := i*5 + j; k < n {
				out[k] = trinary.Trit(v%3) - 1
			}
			v /= 3
		}
	}
	return out, true
}
