package gcp

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/dgallion1/studybuddy/internal/simplify"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify wraps a Google API failure in a simplify.ModelError, marking
// throttling, server-side and network failures as retryable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	me := &simplify.ModelError{Op: op, Err: err}

	var gerr *googleapi.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.As(err, &gerr):
		me.StatusCode = gerr.Code
		me.Retryable = gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
	case errors.As(err, &netErr):
		me.Retryable = true
	default:
		if st, ok := status.FromError(err); ok {
			me.Retryable = retryableCode(st.Code())
		}
	}
	return me
}

func retryableCode(c codes.Code) bool {
	switch c {
	case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return true
	}
	return false
}
