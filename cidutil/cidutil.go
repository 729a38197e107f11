// Package cidutil computes the content identifiers used to address wrapped
// messages.
package cidutil

import (
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/mam/trinary"
)

// ErrUnsupportedCID is returned for CIDs outside the CIDv1 raw sha2-256 contract.
var ErrUnsupportedCID = errors.New("cidutil: cid must be CIDv1 raw sha2-256")

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ForMessage returns the CID of a message's tryte string.
func ForMessage(msg trinary.Trits) (cid.Cid, error) {
	s, err := msg.Trytes()
	if err != nil {
		return cid.Undef, err
	}
	return CIDv1RawSHA256CID([]byte(s))
}

// Check reports whether id follows the CIDv1 raw sha2-256 contract.
func Check(id cid.Cid) error {
	if !id.Defined() {
		return ErrUnsupportedCID
	}
	p := id.Prefix()
	if p.Version != 1 || p.Codec != cid.Raw || p.MhType != multihash.SHA2_256 || p.MhLength != 32 {
		return ErrUnsupportedCID
	}
	return nil
}
