package sqlitestore

import (
	"flag"
	"fmt"

	"xdao.co/mam/link"
	"xdao.co/mam/link/registry"
	"xdao.co/mam/spongos"
)

var flagPath string

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "sqlite",
		Description: "SQLite link store (file)",
		Usage:       registry.UsageCLI | registry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagPath, "sqlite-path", "", "SQLite database file (for --backend=sqlite)")
		},
		Open: func(f spongos.Permutation) (link.Store, func() error, error) {
			if flagPath == "" {
				return nil, nil, fmt.Errorf("missing --sqlite-path")
			}
			s, err := Open(Config{Path: flagPath, Permutation: f})
			if err != nil {
				return nil, nil, err
			}
			return s, s.Close, nil
		},
	})
}
