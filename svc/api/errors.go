package api

import (
	"errors"
	"net/http"
)

// HTTPError pairs an HTTP status with a stable machine-readable key.
type HTTPError struct {
	Status int
	Key    string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest          = HTTPError{Status: http.StatusBadRequest, Key: "bad_request"}
	ErrUnknownRule         = HTTPError{Status: http.StatusBadRequest, Key: "unknown_rule"}
	ErrUnknownFormat       = HTTPError{Status: http.StatusBadRequest, Key: "unknown_format"}
	ErrNotFound            = HTTPError{Status: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed    = HTTPError{Status: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrNotImplemented      = HTTPError{Status: http.StatusNotImplemented, Key: "not_implemented"}
	ErrStoreUnavailable    = HTTPError{Status: http.StatusServiceUnavailable, Key: "store_unavailable"}
	ErrRunAborted          = HTTPError{Status: http.StatusServiceUnavailable, Key: "run_aborted"}
	ErrInternalServerError = HTTPError{Status: http.StatusInternalServerError, Key: "internal_error"}
)

// withCause keeps the HTTP classification and the underlying error together.
type withCause struct {
	HTTPError
	cause error
}

func (e withCause) Error() string { return e.Key + ": " + e.cause.Error() }
func (e withCause) Unwrap() []error { return []error{e.HTTPError, e.cause} }

func wrap(he HTTPError, cause error) error {
	if cause == nil {
		return he
	}
	return withCause{HTTPError: he, cause: cause}
}

func classify(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternalServerError
}
