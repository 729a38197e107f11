package link

import (
	"encoding/binary"
	"errors"
	"sync"

	"xdao.co/mam/spongos"
)

// Info is the metadata kept for a linked message.
type Info struct {
	// Size is the wrapped message length in trits.
	Size int
}

// Store resolves links to the sponge state their message left behind.
//
// Contract:
// - Lookup MUST return ErrNotFound (possibly wrapped) for unknown links.
// - Lookup MUST return a state the caller may advance freely.
// - Update replaces any previous entry for the link.
type Store interface {
	Lookup(l Link) (*spongos.Spongos, Info, error)
	Update(l Link, s *spongos.Spongos, info Info) error
}

// ErrInvalidRecord is returned when a stored record cannot be decoded.
var ErrInvalidRecord = errors.New("link: invalid record")

// MarshalRecord encodes a sponge state and its Info.
func MarshalRecord(s *spongos.Spongos, info Info) ([]byte, error) {
	st, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(st))
	binary.BigEndian.PutUint64(out, uint64(info.Size))
	return append(out, st...), nil
}

// UnmarshalRecord decodes MarshalRecord output.
func UnmarshalRecord(f spongos.Permutation, b []byte) (*spongos.Spongos, Info, error) {
	if len(b) < 8 {
		return nil, Info{}, ErrInvalidRecord
	}
	size := binary.BigEndian.Uint64(b)
	if size > 1<<62 {
		return nil, Info{}, ErrInvalidRecord
	}
	s, err := spongos.Unmarshal(f, b[8:])
	if err != nil {
		return nil, Info{}, ErrInvalidRecord
	}
	return s, Info{Size: int(size)}, nil
}

// MemStore is an in-memory Store. It is safe for concurrent use.
type MemStore struct {
	f  spongos.Permutation
	mu sync.RWMutex
	m  map[string][]byte
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty store restoring states with f.
func NewMemStore(f spongos.Permutation) *MemStore {
	return &MemStore{f: f, m: make(map[string][]byte)}
}

func (m *MemStore) Lookup(l Link) (*spongos.Spongos, Info, error) {
	if !l.Defined() {
		return nil, Info{}, ErrInvalidLink
	}
	m.mu.RLock()
	rec, ok := m.m[l.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, Info{}, ErrNotFound
	}
	return UnmarshalRecord(m.f, rec)
}

func (m *MemStore) Update(l Link, s *spongos.Spongos, info Info) error {
	if !l.Defined() {
		return ErrInvalidLink
	}
	rec, err := MarshalRecord(s, info)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.m[l.String()] = rec
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored links.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
