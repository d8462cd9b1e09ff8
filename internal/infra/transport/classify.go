package transport

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// NetworkErrorKind classifies a transport failure.
type NetworkErrorKind int

const (
	KindGeneric NetworkErrorKind = iota
	KindNoInternet
	KindTimeout
	KindCannotReachServer
)

// NetworkError is the typed transport failure surfaced to callers. The kind
// is decided once here; call sites match on it instead of re-inspecting the
// underlying error.
type NetworkError struct {
	Kind NetworkErrorKind
	Err  error
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case KindNoInternet:
		return "no internet connection"
	case KindTimeout:
		return "request timed out"
	case KindCannotReachServer:
		return "cannot reach server"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Classify wraps a raw transport error into a NetworkError. Errors that are
// already classified pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	return &NetworkError{Kind: classifyKind(err), Err: err}
}

// IsNetworkError reports whether err carries the given kind.
func IsNetworkError(err error, kind NetworkErrorKind) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Kind == kind
	}
	return false
}

func classifyKind(err error) NetworkErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return KindTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindCannotReachServer
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindCannotReachServer
	}
	if errors.Is(err, syscall.ENETDOWN) || errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return KindNoInternet
	}
	return KindGeneric
}
