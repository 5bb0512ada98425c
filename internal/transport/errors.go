package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Kind classifies a transport failure. The set is closed: callers choose
// user-facing behavior by switching on the kind and never inspect the
// underlying platform error.
type Kind string

const (
	// KindTimeout means the bounded wait was exceeded, or the server
	// reported a gateway timeout / overload status.
	KindTimeout Kind = "timeout"
	// KindProtocolMismatch means the HTTP layer succeeded but the body was
	// not valid JSON, typically an HTML error page from a misrouted gateway.
	KindProtocolMismatch Kind = "protocol_mismatch"
	// KindHTTPError means any other non-success status.
	KindHTTPError Kind = "http_error"
	// KindNetworkError means the request could not be sent or completed at
	// all (DNS failure, connection refused, reset).
	KindNetworkError Kind = "network_error"
)

// Error is the only error type the transport layer returns across its
// boundary. Detail is for logs, never for end users.
type Error struct {
	Kind       Kind
	Detail     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s (status %d): %s", e.Kind, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a transport error of the given kind.
func NewError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the failure kind from an error returned by this package.
// The second result is false if the error did not originate here.
func KindOf(err error) (Kind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

// classifyRequestError normalizes errors produced while sending a request.
// Deadline expiry in any form is a timeout; everything else that prevented
// the call from completing is a network error.
func classifyRequestError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, "request deadline exceeded", err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return NewError(KindTimeout, "request timed out", err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewError(KindTimeout, "request timed out", err)
	}
	return NewError(KindNetworkError, err.Error(), err)
}

// classifyStatus maps a non-success HTTP status to a failure kind.
// Gateway timeouts and 5xx responses indicate an overloaded or timed-out
// backend and are surfaced as timeouts per the UI contract.
func classifyStatus(status int, bodySnippet string) *Error {
	kind := KindHTTPError
	if status == http.StatusGatewayTimeout || status >= 500 {
		kind = KindTimeout
	}
	return &Error{
		Kind:       kind,
		Detail:     fmt.Sprintf("unexpected status %d: %s", status, bodySnippet),
		StatusCode: status,
	}
}
