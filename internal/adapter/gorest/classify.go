package gorest

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"

	apperrors "gorest-users/pkg/errors"
)

// Classify maps an error returned by http.Client.Do onto the application
// taxonomy. Connectivity, timeouts, cancellation and truncated streams are
// network errors; anything else raised by the HTTP machinery (bad scheme,
// malformed response, redirect policy) is an HTTP protocol error.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		httpErr *apperrors.HTTPError
		netErr  *apperrors.NetworkError
	)
	if errors.As(err, &httpErr) || errors.As(err, &netErr) {
		return err
	}

	inner := err
	var ue *url.Error
	if errors.As(err, &ue) {
		inner = ue.Err
	}

	var ne net.Error
	switch {
	case errors.Is(inner, context.Canceled),
		errors.Is(inner, context.DeadlineExceeded),
		errors.Is(inner, io.EOF),
		errors.Is(inner, io.ErrUnexpectedEOF),
		errors.As(inner, &ne):
		return apperrors.NewNetworkError(err)
	case ue != nil:
		return apperrors.NewHTTPError(err)
	default:
		return apperrors.NewNetworkError(err)
	}
}
