package link

import (
	"errors"
	"sync"
	"testing"

	"xdao.co/mam/spongos"
	"xdao.co/mam/trinary"
)

func mustLink(t *testing.T, trytes string) Link {
	t.Helper()
	l, err := FromMessage(trinary.MustFromTrytes(trytes))
	if err != nil {
		t.Fatalf("FromMessage: %v", err)
	}
	return l
}

func TestLink_TritCodec(t *testing.T) {
	l := mustLink(t, "LINKED9MESSAGE")
	n, err := l.TritSize()
	if err != nil {
		t.Fatalf("TritSize: %v", err)
	}
	if n != Size {
		t.Fatalf("TritSize: got %d want %d", n, Size)
	}
	buf := trinary.Zero(n)
	l.EncodeTrits(buf)

	var got Link
	src := trinary.NewSource(buf)
	if err := got.DecodeTrits(src); err != nil {
		t.Fatalf("DecodeTrits: %v", err)
	}
	if !got.Equal(l) {
		t.Fatalf("decoded %s want %s", got, l)
	}
	if src.Remaining() != 0 {
		t.Fatalf("DecodeTrits left %d trits", src.Remaining())
	}
}

func TestLink_DecodeRejects(t *testing.T) {
	var l Link
	if err := l.DecodeTrits(trinary.NewSource(trinary.Zero(Size - 1))); err == nil {
		t.Fatalf("expected error for short input")
	}
	// All-zero trits embed bytes of 128, which is not a CID.
	if err := l.DecodeTrits(trinary.NewSource(trinary.Zero(Size))); err == nil {
		t.Fatalf("expected error for garbage link")
	}
	if _, err := (&Link{}).TritSize(); err == nil {
		t.Fatalf("expected error for undefined link")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	l := mustLink(t, "PARSE")
	got, err := Parse(l.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Equal(l) {
		t.Fatalf("Parse mismatch")
	}
	if _, err := Parse("not-a-cid"); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("Parse garbage: got %v", err)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	s := spongos.New(spongos.Keccak{})
	s.Absorb(trinary.MustFromTrytes("RECORD"))

	rec, err := MarshalRecord(s, Info{Size: 4242})
	if err != nil {
		t.Fatalf("MarshalRecord: %v", err)
	}
	got, info, err := UnmarshalRecord(spongos.Keccak{}, rec)
	if err != nil {
		t.Fatalf("UnmarshalRecord: %v", err)
	}
	if info.Size != 4242 {
		t.Fatalf("info: got %d", info.Size)
	}
	s.Commit()
	got.Commit()
	if !got.SqueezeN(243).Equal(s.SqueezeN(243)) {
		t.Fatalf("restored state diverges")
	}

	if _, _, err := UnmarshalRecord(spongos.Keccak{}, rec[:4]); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("short record: got %v", err)
	}
}

func TestMemStore_LookupUpdate(t *testing.T) {
	m := NewMemStore(spongos.Keccak{})
	l := mustLink(t, "STORED")

	if _, _, err := m.Lookup(l); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup missing: got %v", err)
	}

	s := spongos.New(spongos.Keccak{})
	s.Absorb(trinary.MustFromTrytes("STATE"))
	s.Commit()
	if err := m.Update(l, s, Info{Size: 81}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Advancing the original must not affect the stored copy.
	want := s.Fork().SqueezeN(81)
	s.Absorb(trinary.MustFromTrytes("LATER"))

	got, info, err := m.Lookup(l)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.Size != 81 {
		t.Fatalf("info: got %d", info.Size)
	}
	if !got.SqueezeN(81).Equal(want) {
		t.Fatalf("stored state was not snapshotted")
	}

	// Each Lookup returns an independent state.
	again, _, err := m.Lookup(l)
	if err != nil {
		t.Fatalf("Lookup(2): %v", err)
	}
	if !again.SqueezeN(81).Equal(want) {
		t.Fatalf("Lookup returned shared state")
	}
}

func TestMemStore_Concurrent(t *testing.T) {
	m := NewMemStore(spongos.Keccak{})
	msgs := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var wg sync.WaitGroup
	for _, msg := range msgs {
		wg.Add(1)
		go func(msg string) {
			defer wg.Done()
			l, err := FromMessage(trinary.MustFromTrytes(msg))
			if err != nil {
				t.Errorf("FromMessage: %v", err)
				return
			}
			if err := m.Update(l, spongos.New(spongos.Keccak{}), Info{}); err != nil {
				t.Errorf("Update: %v", err)
			}
		}(msg)
	}
	wg.Wait()
	if m.Len() != len(msgs) {
		t.Fatalf("Len: got %d want %d", m.Len(), len(msgs))
	}
}
