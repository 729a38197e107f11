package registry

import (
	"flag"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
)

func init() {
	MustRegister(Backend{
		Name:          "mem",
		Description:   "In-memory link store (lost on exit)",
		Usage:         UsageCLI | UsageDaemon,
		RegisterFlags: func(*flag.FlagSet) {},
		Open: func(f spongos.Permutation) (link.Store, func() error, error) {
			return link.NewMemStore(f), nil, nil
		},
	})
}
