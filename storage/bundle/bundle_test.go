package bundle_test

import (
	"archive/tar"
	"bytes"
	"testing"
	"time"

	"xdao.co/mam/link"
	"xdao.co/mam/storage"
	"xdao.co/mam/storage/bundle"
	"xdao.co/mam/storage/localfs"
	"xdao.co/mam/trinary"
)

func TestBundle_ExportIsDeterministic(t *testing.T) {
	s, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	l1, err := s.Put(trinary.MustFromTrytes("HELLO"))
	if err != nil {
		t.Fatal(err)
	}
	l2, err := s.Put(trinary.MustFromTrytes("WORLD"))
	if err != nil {
		t.Fatal(err)
	}

	opts := bundle.ExportOptions{IncludeIndex: true, Labels: map[string]link.Link{"head": l2}}
	var outA bytes.Buffer
	if err := bundle.Export(&outA, s, []link.Link{l2, l1}, opts); err != nil {
		t.Fatal(err)
	}
	var outB bytes.Buffer
	if err := bundle.Export(&outB, s, []link.Link{l1, l2, l1}, opts); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(outA.Bytes(), outB.Bytes()) {
		t.Fatalf("expected deterministic bundle bytes")
	}
}

func TestBundle_ImportRoundTrip(t *testing.T) {
	src := storage.NewMemStore()
	msg := trinary.MustFromTrytes("PAYLOAD9MESSAGE")
	l, err := src.Put(msg)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := bundle.Export(&buf, src, []link.Link{l}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}

	dst, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	got, err := bundle.Import(bytes.NewReader(buf.Bytes()), dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Equal(l) {
		t.Fatalf("imported links: %v", got)
	}

	stored, err := dst.Get(l)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Equal(msg) {
		t.Fatalf("message mismatch")
	}
}

func TestBundle_ImportRejectsLinkMismatch(t *testing.T) {
	other, err := link.FromMessage(trinary.MustFromTrytes("OTHER"))
	if err != nil {
		t.Fatal(err)
	}

	// Name says "other" but the content is a different message.
	bundleBytes := makeDeterministicTar(t, "messages/"+other.String(), []byte("GOOD"))

	if _, err := bundle.Import(bytes.NewReader(bundleBytes), storage.NewMemStore()); err != storage.ErrLinkMismatch {
		t.Fatalf("expected ErrLinkMismatch, got %v", err)
	}
}

func TestBundle_ImportRejectsUnknownEntry(t *testing.T) {
	bundleBytes := makeDeterministicTar(t, "blocks/whatever", []byte("X"))
	if _, err := bundle.Import(bytes.NewReader(bundleBytes), storage.NewMemStore()); err == nil {
		t.Fatalf("expected error for unknown entry")
	}
	if _, err := bundle.ImportWithOptions(bytes.NewReader(bundleBytes), storage.NewMemStore(), bundle.ImportOptions{IgnoreUnknown: true}); err != nil {
		t.Fatalf("IgnoreUnknown: %v", err)
	}
}

func makeDeterministicTar(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	h := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
