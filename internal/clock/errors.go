package clock

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ArgumentError reports a constructor argument that would produce an invalid
// clock or timestamp. Nothing is constructed when it is returned.
type ArgumentError struct {
	Err    error
	Detail string
}

// NewArgumentError wraps err with a detail message.
func NewArgumentError(err error, detail string) *ArgumentError {
	return &ArgumentError{Err: err, Detail: detail}
}

func (e *ArgumentError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// GRPCStatus lets status.Code classify the error as codes.InvalidArgument.
func (e *ArgumentError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}
