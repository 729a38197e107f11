package storage_test

import (
	"testing"

	"xdao.co/mam/link"
	"xdao.co/mam/storage"
	"xdao.co/mam/storage/testkit"
	"xdao.co/mam/trinary"
)

func TestMemStore_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) storage.Store {
		return storage.NewMemStore()
	})
}

func TestMultiStore_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) storage.Store {
		return storage.MultiStore{Stores: []storage.Store{storage.NewMemStore(), storage.NewMemStore()}}
	})
}

func TestReplicatingStore_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) storage.Store {
		return storage.ReplicatingStore{Backends: []storage.NamedStore{
			{Name: "a", Store: storage.NewMemStore()},
			{Name: "b", Store: storage.NewMemStore()},
		}}
	})
}

func TestMultiStore_FallsBack(t *testing.T) {
	first, second := storage.NewMemStore(), storage.NewMemStore()
	msg := trinary.MustFromTrytes("FALLBACK")
	l, err := second.Put(msg)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	m := storage.MultiStore{Stores: []storage.Store{first, second}}
	got, err := m.Get(l)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Equal(msg) {
		t.Fatalf("Get trits mismatch")
	}
	if first.Has(l) {
		t.Fatalf("MultiStore.Get must not write back")
	}
}

func TestReplicatingStore_PutAll(t *testing.T) {
	r := storage.ReplicatingStore{Backends: []storage.NamedStore{
		{Name: "a", Store: storage.NewMemStore()},
		{Name: "b", Store: storage.NewMemStore()},
	}}
	msg := trinary.MustFromTrytes("REPLICATED")
	l, per, err := r.PutAll(msg)
	if err != nil {
		t.Fatalf("PutAll failed: %v", err)
	}
	if len(per) != 2 {
		t.Fatalf("per-backend links: got %d want 2", len(per))
	}
	for name, got := range per {
		if !got.Equal(l) {
			t.Fatalf("backend %s returned %s want %s", name, got, l)
		}
		if !r.Backends[0].Store.Has(l) || !r.Backends[1].Store.Has(l) {
			t.Fatalf("message not replicated to every backend")
		}
	}
}

type badStore struct{ storage.Store }

func (b badStore) Put(msg trinary.Trits) (link.Link, error) {
	return link.FromMessage(trinary.MustFromTrytes("OTHER"))
}

func TestReplicatingStore_RejectsMismatch(t *testing.T) {
	r := storage.ReplicatingStore{Backends: []storage.NamedStore{
		{Name: "good", Store: storage.NewMemStore()},
		{Name: "bad", Store: badStore{storage.NewMemStore()}},
	}}
	if _, err := r.Put(trinary.MustFromTrytes("REPLICATED")); err != storage.ErrLinkMismatch {
		t.Fatalf("Put: got %v want ErrLinkMismatch", err)
	}
}
