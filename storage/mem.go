package storage

import (
	"sync"

	"xdao.co/mam/link"
	"xdao.co/mam/trinary"
)

// MemStore keeps messages in memory. It is safe for concurrent use.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]trinary.Trits
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]trinary.Trits)}
}

func (s *MemStore) Put(msg trinary.Trits) (link.Link, error) {
	l, err := link.FromMessage(msg)
	if err != nil {
		return link.Link{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[l.String()]; !ok {
		s.m[l.String()] = msg.Clone()
	}
	return l, nil
}

func (s *MemStore) Get(l link.Link) (trinary.Trits, error) {
	if !l.Defined() {
		return nil, ErrInvalidLink
	}
	s.mu.RLock()
	msg, ok := s.m[l.String()]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return msg.Clone(), nil
}

func (s *MemStore) Has(l link.Link) bool {
	if !l.Defined() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[l.String()]
	return ok
}
