package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/pion/logging"
	"google.golang.org/grpc"

	"xdao.co/mam/link/grpclink"
	"xdao.co/mam/link/registry"
	_ "xdao.co/mam/link/sqlitestore"
	"xdao.co/mam/spongos"
)

func main() {
	fs := flag.NewFlagSet("mam-linkd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	backend := fs.String("backend", "sqlite", "link store backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	registry.RegisterFlags(fs, registry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range registry.List(registry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	f := spongos.Keccak{}
	store, closeFn, err := registry.Open(*backend, registry.UsageDaemon, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	log := logging.NewDefaultLoggerFactory().NewLogger("mam-linkd")
	s := grpc.NewServer()
	grpclink.RegisterLinkStoreServer(s, &grpclink.Server{Store: store, Permutation: f, Log: log})

	fmt.Fprintf(os.Stderr, "mam-linkd listening on %s (backend=%s)\n", lis.Addr().String(), *backend)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
