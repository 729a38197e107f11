// Package link addresses previously wrapped messages and stores the sponge
// state each one left behind, so later messages can join onto it without
// re-transmitting it.
package link

import (
	"errors"

	"github.com/ipfs/go-cid"

	"xdao.co/mam/cidutil"
	"xdao.co/mam/trinary"
)

const (
	// ByteSize is the binary size of a link CID.
	ByteSize = 36

	// Size is the wire size of a link in trits.
	Size = ByteSize * trinary.TritsPerByte
)

var (
	ErrInvalidLink = errors.New("link: invalid link")
	ErrNotFound    = errors.New("link: not found")
)

// Link is the content address of a wrapped message: a CIDv1 (raw, sha2-256)
// over the message's tryte string. The zero Link is undefined.
type Link struct {
	id cid.Cid
}

// FromMessage returns the link addressing msg.
func FromMessage(msg trinary.Trits) (Link, error) {
	id, err := cidutil.ForMessage(msg)
	if err != nil {
		return Link{}, err
	}
	return Link{id: id}, nil
}

// FromCID wraps id, which must follow the CIDv1 raw sha2-256 contract.
func FromCID(id cid.Cid) (Link, error) {
	if err := cidutil.Check(id); err != nil {
		return Link{}, ErrInvalidLink
	}
	return Link{id: id}, nil
}

// Parse decodes the string form of a link.
func Parse(s string) (Link, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return Link{}, ErrInvalidLink
	}
	return FromCID(id)
}

func (l Link) CID() cid.Cid      { return l.id }
func (l Link) Defined() bool     { return l.id.Defined() }
func (l Link) String() string    { return l.id.String() }
func (l Link) Equal(o Link) bool { return l.id.Equals(o.id) }

// TritSize returns Size for a defined link.
func (l *Link) TritSize() (int, error) {
	if len(l.id.Bytes()) != ByteSize || cidutil.Check(l.id) != nil {
		return 0, ErrInvalidLink
	}
	return Size, nil
}

func (l *Link) EncodeTrits(dst trinary.Trits) {
	copy(dst, trinary.FromBytes(l.id.Bytes()))
}

func (l *Link) DecodeTrits(src trinary.Source) error {
	t, err := src.Next(Size)
	if err != nil {
		return err
	}
	b, err := trinary.ToBytes(t)
	if err != nil {
		return ErrInvalidLink
	}
	id, err := cid.Cast(b)
	if err != nil {
		return ErrInvalidLink
	}
	parsed, err := FromCID(id)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
