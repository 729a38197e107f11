// Package bundle moves message chains between stores as deterministic TAR
// archives of tryte text files.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"xdao.co/mam/link"
	"xdao.co/mam/storage"
	"xdao.co/mam/trinary"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

const messagePrefix = "messages/"

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// Labels is optional, non-authoritative metadata mapping names to links.
	Labels map[string]link.Link
	// IncludeIndex controls whether index.json is included.
	IncludeIndex bool
}

// Export writes a deterministic TAR bundle containing the messages for the given links.
//
// Entry order is lexicographic and TAR headers are normalized. Every
// exported message is checked against its link.
func Export(w io.Writer, store storage.Store, links []link.Link, opts ExportOptions) error {
	if store == nil {
		return fmt.Errorf("bundle: nil store")
	}

	uniq := make(map[string]link.Link, len(links))
	for _, l := range links {
		if !l.Defined() {
			return storage.ErrInvalidLink
		}
		uniq[l.String()] = l
	}

	names := make([]string, 0, len(uniq))
	for s := range uniq {
		names = append(names, s)
	}
	sort.Strings(names)

	tw := tar.NewWriter(w)

	entries := make([]indexMessage, 0, len(names))
	for _, s := range names {
		l := uniq[s]
		msg, err := store.Get(l)
		if err != nil {
			_ = tw.Close()
			return err
		}
		got, err := link.FromMessage(msg)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if !got.Equal(l) {
			_ = tw.Close()
			return storage.ErrLinkMismatch
		}
		text, err := msg.Trytes()
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, messagePrefix+s, []byte(text)); err != nil {
			_ = tw.Close()
			return err
		}
		entries = append(entries, indexMessage{Link: s, Trits: len(msg)})
	}

	if opts.IncludeIndex {
		idx := indexJSON{
			Version:  FormatVersion,
			Encoding: "trytes",
			Messages: entries,
		}

		if len(opts.Labels) > 0 {
			keys := make([]string, 0, len(opts.Labels))
			for k := range opts.Labels {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			labels := make([]indexLabel, 0, len(keys))
			for _, k := range keys {
				if k == "" {
					_ = tw.Close()
					return fmt.Errorf("bundle: empty label key")
				}
				v := opts.Labels[k]
				if !v.Defined() {
					_ = tw.Close()
					return storage.ErrInvalidLink
				}
				labels = append(labels, indexLabel{Name: k, Link: v.String()})
			}
			idx.Labels = labels
		}

		b, err := json.Marshal(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", append(b, '\n')); err != nil {
			_ = tw.Close()
			return err
		}
	}

	return tw.Close()
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown controls whether unknown TAR entries are ignored.
	//
	// Default (false) is fail-closed: unknown entries cause Import to return an error.
	IgnoreUnknown bool
}

// Import reads a bundle from r and puts every message into store.
func Import(r io.Reader, store storage.Store) ([]link.Link, error) {
	return ImportWithOptions(r, store, ImportOptions{})
}

// ImportWithOptions reads a bundle from r and puts every message into store.
//
// Each message must hash to the link in its entry name. The imported links
// are returned in archive order.
func ImportWithOptions(r io.Reader, store storage.Store, opts ImportOptions) ([]link.Link, error) {
	if store == nil {
		return nil, fmt.Errorf("bundle: nil store")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}
	var out []link.Link

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return nil, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}

		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return nil, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		// Non-authoritative metadata.
		if name == "index.json" {
			_, _ = io.Copy(io.Discard, tr)
			continue
		}

		if !strings.HasPrefix(name, messagePrefix) {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return nil, fmt.Errorf("bundle: unknown entry: %s", name)
		}

		l, err := link.Parse(strings.TrimPrefix(name, messagePrefix))
		if err != nil {
			return nil, storage.ErrInvalidLink
		}

		payload, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		msg, err := trinary.FromTrytes(strings.TrimSpace(string(payload)))
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

		if _, ok := seen[l.String()]; ok {
			return nil, fmt.Errorf("bundle: duplicate message entry: %s", l)
		}
		seen[l.String()] = struct{}{}

		put, err := store.Put(msg)
		if err != nil {
			return nil, err
		}
		if !put.Equal(l) {
			return nil, storage.ErrLinkMismatch
		}
		out = append(out, l)
	}
}

type indexJSON struct {
	Version  int            `json:"version"`
	Encoding string         `json:"encoding"`
	Messages []indexMessage `json:"messages"`
	Labels   []indexLabel   `json:"labels,omitempty"`
}

type indexMessage struct {
	Link  string `json:"link"`
	Trits int    `json:"trits"`
}

type indexLabel struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}

	parts := strings.Split(name, "/")
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return strings.Join(parts, "/")
}
