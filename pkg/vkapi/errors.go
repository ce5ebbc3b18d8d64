package vkapi

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Messages carried by APIError for the failures the client can tell apart.
const (
	MsgConnectionError = "Connection error: Could not connect to server."
	MsgTimeout         = "Request timed out."
	MsgUnknownAPIError = "Unknown API error"
)

// APIError is the single error kind returned by the client. It carries a
// human-readable message only; the remote API does not distinguish causes any
// further than this.
type APIError struct {
	Message string
	cause   error
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the transport or decoding failure behind the message, if any.
func (e *APIError) Unwrap() error { return e.cause }

// IsAPIError reports whether err is, or wraps, an *APIError.
func IsAPIError(err error) bool {
	_, ok := AsAPIError(err)
	return ok
}

// AsAPIError extracts the *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func requestFailed(err error) *APIError {
	return &APIError{Message: "Request failed: " + err.Error(), cause: err}
}

func httpFailed(status string) *APIError {
	return &APIError{Message: "HTTP error: " + status}
}

func envelopeFailed(msg string) *APIError {
	if msg == "" {
		msg = MsgUnknownAPIError
	}
	return &APIError{Message: msg}
}

// translateTransportError maps a failed round trip onto APIError. Dial
// failures count as connection errors even when the dial itself timed out.
func translateTransportError(err error) *APIError {
	switch {
	case isConnectionError(err):
		return &APIError{Message: MsgConnectionError, cause: err}
	case isTimeout(err):
		return &APIError{Message: MsgTimeout, cause: err}
	default:
		return requestFailed(err)
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
