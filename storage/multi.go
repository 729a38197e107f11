package storage

import (
	"errors"

	"xdao.co/mam/link"
	"xdao.co/mam/trinary"
)

// MultiStore provides deterministic, ordered fallback across multiple stores.
//
// Lookup order is the slice order in Stores; callers MUST supply a fixed order.
//
// Put is defined to write only to the first store.
type MultiStore struct {
	Stores []Store
}

var _ Store = MultiStore{}

func (m MultiStore) Put(msg trinary.Trits) (link.Link, error) {
	if len(m.Stores) == 0 {
		return link.Link{}, errors.New("storage: MultiStore has no stores")
	}
	return m.Stores[0].Put(msg)
}

func (m MultiStore) Get(l link.Link) (trinary.Trits, error) {
	for _, s := range m.Stores {
		msg, err := s.Get(l)
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

func (m MultiStore) Has(l link.Link) bool {
	for _, s := range m.Stores {
		if s.Has(l) {
			return true
		}
	}
	return false
}
