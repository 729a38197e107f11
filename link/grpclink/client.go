// Package grpclink serves and consumes a link.Store over gRPC.
package grpclink

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
)

// Client implements link.Store over the LinkStore gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client LinkStoreClient
	f      spongos.Permutation

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ link.Store = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

// Dial connects to a LinkStore service. Looked-up states are restored with f.
func Dial(target string, f spongos.Permutation, opts DialOptions) (*Client, error) {
	if f == nil {
		return nil, errors.New("grpclink: permutation is required")
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc, f), nil
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn, f spongos.Permutation) *Client {
	return &Client{cc: cc, client: NewLinkStoreClient(cc), f: f}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Lookup(l link.Link) (*spongos.Spongos, link.Info, error) {
	if !l.Defined() {
		return nil, link.Info{}, link.ErrInvalidLink
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Lookup(ctx, wrapperspb.String(l.String()))
	if err != nil {
		return nil, link.Info{}, mapRPC(err)
	}
	return link.UnmarshalRecord(c.f, reply.GetValue())
}

func (c *Client) Update(l link.Link, s *spongos.Spongos, info link.Info) error {
	if !l.Defined() {
		return link.ErrInvalidLink
	}
	rec, err := link.MarshalRecord(s, info)
	if err != nil {
		return err
	}
	payload := append(l.CID().Bytes(), rec...)

	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.Update(ctx, wrapperspb.Bytes(payload))
	return mapRPC(err)
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
