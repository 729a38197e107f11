package registry

// Usage is a bit set of the program kinds a backend is offered to.
//
// The grpc backend is a client of mam-linkd, so it is UsageCLI only: a
// daemon backed by another daemon would just proxy records.
type Usage uint8

const (
	// UsageCLI offers the backend to tools that read or publish messages.
	UsageCLI Usage = 1 << iota
	// UsageDaemon offers the backend to mam-linkd as its record store.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
