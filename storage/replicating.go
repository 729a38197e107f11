package storage

import (
	"fmt"

	"xdao.co/mam/link"
	"xdao.co/mam/trinary"
)

// NamedStore associates a Store with a stable backend name.
type NamedStore struct {
	Name  string
	Store Store
}

// ReplicatingStore writes to all configured backends.
//
// Reads fall back in order. Writes go to all backends and require all returned
// links to match (otherwise ErrLinkMismatch is returned).
type ReplicatingStore struct {
	Backends []NamedStore
}

var _ Store = ReplicatingStore{}

// PutAll writes the same message to all backends.
//
// It returns the canonical link (computed from msg) and a map of backend
// name -> returned link.
func (r ReplicatingStore) PutAll(msg trinary.Trits) (link.Link, map[string]link.Link, error) {
	want, err := link.FromMessage(msg)
	if err != nil {
		return link.Link{}, nil, err
	}
	if len(r.Backends) == 0 {
		return link.Link{}, nil, fmt.Errorf("storage: ReplicatingStore has no backends")
	}

	out := make(map[string]link.Link, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store == nil {
			return link.Link{}, nil, fmt.Errorf("storage: nil store for backend %q", b.Name)
		}
		got, err := b.Store.Put(msg)
		if err != nil {
			return link.Link{}, nil, err
		}
		out[b.Name] = got
		if !got.Equal(want) {
			return link.Link{}, out, ErrLinkMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingStore) Put(msg trinary.Trits) (link.Link, error) {
	l, _, err := r.PutAll(msg)
	return l, err
}

func (r ReplicatingStore) Get(l link.Link) (trinary.Trits, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		msg, err := b.Store.Get(l)
		if err == nil {
			return msg, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r ReplicatingStore) Has(l link.Link) bool {
	for _, b := range r.Backends {
		if b.Store != nil && b.Store.Has(l) {
			return true
		}
	}
	return false
}
