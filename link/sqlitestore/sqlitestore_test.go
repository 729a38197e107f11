package sqlitestore

import (
	"errors"
	"path/filepath"
	"testing"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

func testState(seed string) *spongos.Spongos {
	s := spongos.New(spongos.Keccak{})
	s.Absorb(trinary.MustFromTrytes(seed))
	s.Commit()
	return s
}

func testLink(t *testing.T, trytes string) link.Link {
	t.Helper()
	l, err := link.FromMessage(trinary.MustFromTrytes(trytes))
	if err != nil {
		t.Fatalf("FromMessage: %v", err)
	}
	return l
}

func TestStore_UpdateLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")
	s, err := Open(Config{Path: path, Permutation: spongos.Keccak{}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	l := testLink(t, "FIRST9MESSAGE")
	want := testState("STATE")
	if err := s.Update(l, want, link.Info{Size: 729}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, info, err := s.Lookup(l)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.Size != 729 {
		t.Fatalf("info size: got %d want 729", info.Size)
	}
	if !got.SqueezeN(81).Equal(want.SqueezeN(81)) {
		t.Fatalf("restored state diverges")
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")
	l := testLink(t, "PERSISTED")

	s, err := Open(Config{Path: path, Permutation: spongos.Keccak{}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Update(l, testState("A"), link.Info{Size: 3}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Update(l, testState("B"), link.Info{Size: 6}); err != nil {
		t.Fatalf("Update(replace): %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(Config{Path: path, Permutation: spongos.Keccak{}})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	n, err := s.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Fatalf("Len: got %d want 1", n)
	}
	got, info, err := s.Lookup(l)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.Size != 6 {
		t.Fatalf("Update did not replace the record")
	}
	if !got.SqueezeN(81).Equal(testState("B").SqueezeN(81)) {
		t.Fatalf("restored state diverges")
	}
}

func TestStore_NotFound(t *testing.T) {
	s, err := Open(Config{Path: ":memory:", Permutation: spongos.Keccak{}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, _, err := s.Lookup(testLink(t, "ABSENT")); !errors.Is(err, link.ErrNotFound) {
		t.Fatalf("Lookup: got %v want ErrNotFound", err)
	}
	if _, _, err := s.Lookup(link.Link{}); !errors.Is(err, link.ErrInvalidLink) {
		t.Fatalf("Lookup(undef): got %v want ErrInvalidLink", err)
	}
}

func TestOpen_Validates(t *testing.T) {
	if _, err := Open(Config{Permutation: spongos.Keccak{}}); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := Open(Config{Path: ":memory:"}); err == nil {
		t.Fatalf("expected error for missing permutation")
	}
}
