package grpclink

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/mam/link"
)

// mapRPC turns a gRPC status back into the link package sentinels.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return link.ErrNotFound
	case codes.InvalidArgument:
		return link.ErrInvalidLink
	case codes.DataLoss:
		return link.ErrInvalidRecord
	default:
		return err
	}
}

// mapErr turns a link.Store error into a gRPC status.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, link.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, link.ErrInvalidLink):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, link.ErrInvalidRecord):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
