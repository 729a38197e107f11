// Package testkit holds conformance tests shared by message store backends.
package testkit

import (
	"testing"

	"xdao.co/mam/link"
	"xdao.co/mam/storage"
	"xdao.co/mam/trinary"
)

// NewStore constructs a fresh, empty Store instance for a test.
// The returned Store MUST be isolated from other tests.
type NewStore func(t *testing.T) storage.Store

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := trinary.MustFromTrytes("HELLO9MAM9STORAGE")

		l, err := s.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantLink, err := link.FromMessage(want)
		if err != nil {
			t.Fatalf("FromMessage failed: %v", err)
		}
		if !l.Equal(wantLink) {
			t.Fatalf("Put link mismatch: got %s want %s", l, wantLink)
		}

		got, err := s.Get(l)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("Get trits mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		s := newStore(t)
		msg := trinary.MustFromTrytes("SAME9TRITS")

		l1, err := s.Put(msg)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		l2, err := s.Put(msg)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if !l1.Equal(l2) {
			t.Fatalf("Put not idempotent: %s vs %s", l1, l2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		msg := trinary.MustFromTrytes("MISSING")
		l, err := link.FromMessage(msg)
		if err != nil {
			t.Fatalf("FromMessage failed: %v", err)
		}

		if s.Has(l) {
			t.Fatalf("Has returned true for missing link")
		}
		if _, err := s.Get(l); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := s.Put(msg); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !s.Has(l) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := newStore(t)
		msg := trinary.MustFromTrytes("IMMUTABLE")
		l, err := s.Put(msg)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := s.Get(l)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		got[0] = trinary.Add(got[0], 1)
		again, err := s.Get(l)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !again.Equal(msg) {
			t.Fatalf("stored message changed through returned slice")
		}
	})

	t.Run("RejectUndefLink", func(t *testing.T) {
		s := newStore(t)
		var undef link.Link
		if s.Has(undef) {
			t.Fatalf("Has should be false for undefined link")
		}
		if _, err := s.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined link")
		}
	})
}
