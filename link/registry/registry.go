// Package registry maps link-store backend names to constructors, so that a
// binary serving or consuming sponge-state records can pick where those
// records live with a single --backend flag.
package registry

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"sync"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
)

var (
	// ErrUnknownBackend is returned by Open for a name nobody registered.
	ErrUnknownBackend = errors.New("registry: unknown link store backend")

	// ErrUsage is returned by Open when the backend is not offered to the
	// calling program.
	ErrUsage = errors.New("registry: backend not offered for this usage")
)

// Backend describes one way to obtain a link.Store.
//
// A backend package calls MustRegister from init, and a program links it in
// with a blank import. The mem backend is always present.
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// RegisterFlags declares the backend's own options (paths, targets).
	// It runs once, before flag parsing.
	RegisterFlags func(fs *flag.FlagSet)

	// Open builds the store from the parsed options. f restores the sponge
	// state held in each record. The returned close function may be nil.
	Open func(f spongos.Permutation) (link.Store, func() error, error)
}

func (b Backend) validate() error {
	switch {
	case b.Name == "":
		return errors.New("registry: backend has no name")
	case b.RegisterFlags == nil:
		return fmt.Errorf("registry: %s: RegisterFlags is nil", b.Name)
	case b.Open == nil:
		return fmt.Errorf("registry: %s: Open is nil", b.Name)
	case b.Usage == 0:
		return fmt.Errorf("registry: %s: no usage set", b.Name)
	}
	return nil
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register adds b. Names are unique for the life of the process.
func Register(b Backend) error {
	if err := b.validate(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := backends[b.Name]; dup {
		return fmt.Errorf("registry: %s registered twice", b.Name)
	}
	backends[b.Name] = b
	return nil
}

// MustRegister panics if b cannot be registered.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns the backends offered for usage, ordered by name.
func List(usage Usage) []Backend {
	mu.RLock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names is List reduced to backend names.
func Names(usage Usage) []string {
	var names []string
	for _, b := range List(usage) {
		names = append(names, b.Name)
	}
	return names
}

// RegisterFlags declares the options of every backend offered for usage on
// fs. The flag package fails on unknown flags, so this must precede Parse
// even though only one backend will be opened.
func RegisterFlags(fs *flag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		b.RegisterFlags(fs)
	}
}

// Open opens the link store registered as name.
func Open(name string, usage Usage, f spongos.Permutation) (link.Store, func() error, error) {
	if f == nil {
		return nil, nil, errors.New("registry: permutation is required")
	}
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUsage, name)
	}
	return b.Open(f)
}
