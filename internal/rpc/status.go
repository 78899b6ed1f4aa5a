package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// toStatus maps engine errors to gRPC status errors by taxonomy class.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	kind := phierr.KindOf(err)
	if kind == "" {
		return status.Error(codes.Internal, err.Error())
	}
	if kind == phierr.Timeout {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	var code codes.Code
	switch kind.Class() {
	case phierr.ClassValidation:
		code = codes.InvalidArgument
	case phierr.ClassCapacity:
		code = codes.ResourceExhausted
	case phierr.ClassConfiguration:
		code = codes.FailedPrecondition
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
