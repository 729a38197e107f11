package grpclink

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/pion/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
)

// Server exposes a link.Store over the LinkStore gRPC service.
type Server struct {
	UnimplementedLinkStoreServer

	Store link.Store

	// Permutation restores sponge states received in Update.
	Permutation spongos.Permutation

	// Log is optional.
	Log logging.LeveledLogger
}

func (s *Server) Lookup(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing link store")
	}
	l, err := link.Parse(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	st, info, err := s.Store.Lookup(l)
	if err != nil {
		return nil, mapErr(err)
	}
	rec, err := link.MarshalRecord(st, info)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if s.Log != nil {
		s.Log.Tracef("lookup %s", l)
	}
	return wrapperspb.Bytes(rec), nil
}

func (s *Server) Update(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if s == nil || s.Store == nil || s.Permutation == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing link store")
	}
	b := in.GetValue()
	if len(b) < link.ByteSize {
		return nil, mapErr(link.ErrInvalidLink)
	}
	id, err := cid.Cast(b[:link.ByteSize])
	if err != nil {
		return nil, mapErr(link.ErrInvalidLink)
	}
	l, err := link.FromCID(id)
	if err != nil {
		return nil, mapErr(err)
	}
	st, info, err := link.UnmarshalRecord(s.Permutation, b[link.ByteSize:])
	if err != nil {
		return nil, mapErr(err)
	}
	if err := s.Store.Update(l, st, info); err != nil {
		return nil, mapErr(err)
	}
	if s.Log != nil {
		s.Log.Debugf("update %s (size=%d)", l, info.Size)
	}
	return &emptypb.Empty{}, nil
}
