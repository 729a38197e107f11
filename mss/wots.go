package mss

import (
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

const (
	// HashSize is the size in trits of a hash signed by a one-time key.
	HashSize = 234

	wotsPartSize       = 162
	wotsHashTrytes     = HashSize / trinary.TritsPerTryte
	wotsChecksumTrytes = 3
	wotsParts          = wotsHashTrytes + wotsChecksumTrytes
	wotsChainLen       = 26

	// WotsSigSize is the size in trits of a one-time signature.
	WotsSigSize = wotsParts * wotsPartSize
)

// wotsValues splits hash into tryte values and appends a checksum so that
// raising any value forces another one to drop.
func wotsValues(hash trinary.Trits) [wotsParts]int {
	var v [wotsParts]int
	sum := 0
	for i := 0; i < wotsHashTrytes; i++ {
		v[i] = int(trinary.Int(hash[i*3 : i*3+3]))
		sum += v[i]
	}
	cs := trinary.Zero(wotsChecksumTrytes * trinary.TritsPerTryte)
	_ = trinary.PutInt(cs, int64(-sum))
	for i := 0; i < wotsChecksumTrytes; i++ {
		v[wotsHashTrytes+i] = int(trinary.Int(cs[i*3 : i*3+3]))
	}
	return v
}

func chain(f spongos.Permutation, x trinary.Trits, steps int) trinary.Trits {
	for i := 0; i < steps; i++ {
		x = spongos.Hash(f, x, wotsPartSize)
	}
	return x
}

func wotsPublicKey(f spongos.Permutation, sk trinary.Trits) trinary.Trits {
	parts := trinary.Zero(WotsSigSize)
	for i := 0; i < wotsParts; i++ {
		p := sk[i*wotsPartSize : (i+1)*wotsPartSize]
		copy(parts[i*wotsPartSize:], chain(f, p, wotsChainLen))
	}
	return spongos.Hash(f, parts, PKSize)
}

func wotsSign(f spongos.Permutation, sk, hash trinary.Trits) trinary.Trits {
	vals := wotsValues(hash)
	sig := trinary.Zero(WotsSigSize)
	for i, v := range vals {
		p := sk[i*wotsPartSize : (i+1)*wotsPartSize]
		copy(sig[i*wotsPartSize:], chain(f, p, wotsChainLen/2+v))
	}
	return sig
}

// wotsRecover completes every chain of sig and returns the public key the
// signature was made with.
func wotsRecover(f spongos.Permutation, hash, sig trinary.Trits) trinary.Trits {
	vals := wotsValues(hash)
	parts := trinary.Zero(WotsSigSize)
	for i, v := range vals {
		p := sig[i*wotsPartSize : (i+1)*wotsPartSize]
		copy(parts[i*wotsPartSize:], chain(f, p, wotsChainLen/2-v))
	}
	return spongos.Hash(f, parts, PKSize)
}
