package api

import (
	"errors"
	"fmt"
)

// ErrInvalidBaseURL is returned by NewClient for a base URL it cannot use.
var ErrInvalidBaseURL = errors.New("invalid API base URL")

// RemoteFetchError is returned when a content API call fails: a transport
// error, a non-2xx status, a body that is not an envelope, or an envelope
// reporting success=false.
type RemoteFetchError struct {
	// Op names the client operation, e.g. "articles".
	Op string
	// URL is the request URL.
	URL string
	// StatusCode is the HTTP status, zero for transport errors.
	StatusCode int
	// Message is the server message or the operation's default.
	Message string
	Err     error
}

func (e *RemoteFetchError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}
