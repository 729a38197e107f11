// Package localfs stores wrapped messages as tryte text files.
package localfs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"xdao.co/mam/link"
	"xdao.co/mam/storage"
	"xdao.co/mam/trinary"
)

// Store is a local filesystem-backed message store.
//
// Messages are stored immutably as tryte strings and keyed strictly by link.
// It never uses the network and never depends on wall-clock time.
type Store struct {
	root string
}

var _ storage.Store = (*Store)(nil)

// New constructs a filesystem store rooted at root. The directory will be created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Put(msg trinary.Trits) (link.Link, error) {
	l, err := link.FromMessage(msg)
	if err != nil {
		return link.Link{}, err
	}
	text, err := msg.Trytes()
	if err != nil {
		return link.Link{}, err
	}

	path := s.pathFor(l)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return link.Link{}, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := s.Get(l)
			if rerr != nil {
				// Unreadable or corrupted files are an immutability violation.
				return link.Link{}, storage.ErrImmutable
			}
			if !existing.Equal(msg) {
				return link.Link{}, storage.ErrImmutable
			}
			return l, nil
		}
		return link.Link{}, err
	}
	defer f.Close()

	if _, err := f.WriteString(text + "\n"); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return link.Link{}, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return link.Link{}, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return link.Link{}, err
	}
	return l, nil
}

func (s *Store) Get(l link.Link) (trinary.Trits, error) {
	if !l.Defined() {
		return nil, storage.ErrInvalidLink
	}
	b, err := os.ReadFile(s.pathFor(l))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	msg, err := trinary.FromTrytes(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, storage.ErrLinkMismatch
	}
	got, err := link.FromMessage(msg)
	if err != nil {
		return nil, err
	}
	if !got.Equal(l) {
		return nil, storage.ErrLinkMismatch
	}
	return msg, nil
}

func (s *Store) Has(l link.Link) bool {
	if !l.Defined() {
		return false
	}
	_, err := os.Stat(s.pathFor(l))
	return err == nil
}

func (s *Store) pathFor(l link.Link) string {
	name := l.String()
	if len(name) < 2 {
		return filepath.Join(s.root, name+".trytes")
	}
	return filepath.Join(s.root, name[len(name)-2:], name+".trytes")
}
