package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies why a source query failed.
type ErrorKind int

const (
	KindMissingCredential ErrorKind = iota // required API key absent, no call attempted
	KindTimeout                            // source did not respond within its deadline
	KindConnectionFailure                  // network/DNS-level failure
	KindHTTPError                          // non-2xx response, generic
	KindNotFound                           // 404: endpoint gone
	KindAccessRestricted                   // 403: access restricted
	KindParseFailure                       // response received but uninterpretable
	KindNoMatchingData                     // source healthy but nothing relevant
)

// String returns the kind name for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindTimeout:
		return "timeout"
	case KindConnectionFailure:
		return "connection_failure"
	case KindHTTPError:
		return "http_error"
	case KindNotFound:
		return "not_found"
	case KindAccessRestricted:
		return "access_restricted"
	case KindParseFailure:
		return "parse_failure"
	case KindNoMatchingData:
		return "no_matching_data"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// QueryError describes one source failure. It is a transient value consumed
// by the resolver for fallback decisions and logging, never persisted.
type QueryError struct {
	Source string    // which client produced the error ("government_api", "scrape")
	Kind   ErrorKind
	Status int       // HTTP status for the HTTP kinds, 0 otherwise
	Err    error     // underlying cause, may be nil
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Healthy reports whether the source itself was reachable and well-formed.
// NoMatchingData is the only kind that implies a healthy source.
func (e *QueryError) Healthy() bool {
	return e.Kind == KindNoMatchingData
}

// NoData returns the "source healthy, nothing relevant" error.
func NoData(src string) *QueryError {
	return &QueryError{Source: src, Kind: KindNoMatchingData}
}

// MissingCredential returns the error for an absent API key.
func MissingCredential(src string) *QueryError {
	return &QueryError{Source: src, Kind: KindMissingCredential}
}

// ParseFailure wraps a malformed-response error.
func ParseFailure(src string, err error) *QueryError {
	return &QueryError{Source: src, Kind: KindParseFailure, Err: err}
}

// FromStatus maps a non-2xx HTTP status to its error kind.
func FromStatus(src string, status int) *QueryError {
	kind := KindHTTPError
	switch status {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusForbidden:
		kind = KindAccessRestricted
	}
	return &QueryError{Source: src, Kind: kind, Status: status}
}

// FromTransport classifies a transport-level failure as a timeout or a
// connection failure.
func FromTransport(src string, err error) *QueryError {
	kind := KindConnectionFailure
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &QueryError{Source: src, Kind: kind, Err: err}
}
