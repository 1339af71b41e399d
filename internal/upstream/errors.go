package upstream

import "errors"

var (
	// ErrUnauthorized means the upstream rejected the presented
	// credentials (expired or invalid token, bad login).
	ErrUnauthorized = errors.New("upstream rejected credentials")

	// ErrNotFound means the requested upstream resource does not exist.
	ErrNotFound = errors.New("upstream resource not found")

	// ErrUnavailable covers network failures, timeouts and 5xx
	// responses from the upstream.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrBadRequest means the upstream rejected the payload.
	ErrBadRequest = errors.New("upstream rejected request")
)
