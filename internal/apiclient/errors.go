package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindNetwork means no response was received (including timeouts).
	KindNetwork Kind = iota
	// KindClient is a 4xx other than 401.
	KindClient
	// KindServer is a 5xx.
	KindServer
	// KindUnauthorized is a 401; the session has been terminated.
	KindUnauthorized
	// KindDecode means the response body could not be parsed.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindUnauthorized:
		return "unauthorized"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// User-facing messages.
const (
	MsgNetwork = "Could not reach the server."
	MsgServer  = "Something went wrong on our side. Please try again later."
	MsgDecode  = "Received an unexpected response from the server."
)

// Error is returned for every failed request.
type Error struct {
	// Op is "METHOD /path".
	Op string

	// Status is the HTTP status code, 0 when no response arrived.
	Status int

	Kind Kind

	// Message is safe to show to a user.
	Message string

	// Err is the underlying transport or decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op + ": "
	if e.Status != 0 {
		msg += strconv.Itoa(e.Status) + " "
	}
	msg += e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// statusMessage is the default text for a status without a server message.
func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request was invalid."
	case http.StatusUnauthorized:
		return "Your session has expired. Please log in again."
	case http.StatusForbidden:
		return "You do not have permission to do that."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "The resource already exists."
	case http.StatusRequestEntityTooLarge:
		return "The upload is too large."
	case http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	}
	if status >= 500 {
		return MsgServer
	}
	return fmt.Sprintf("Request failed with status %d.", status)
}

// newStatusError classifies a non-2xx response. serverMsg is the body's
// message field; it is ignored for 5xx.
func newStatusError(op string, status int, serverMsg string) *Error {
	e := &Error{Op: op, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status >= 500:
		e.Kind = KindServer
		e.Message = MsgServer
		return e
	default:
		e.Kind = KindClient
	}
	e.Message = serverMsg
	if e.Message == "" {
		e.Message = statusMessage(status)
	}
	return e
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindUnauthorized
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusNotFound
}

// IsNetwork reports whether err means the server could not be reached.
func IsNetwork(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindNetwork
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.Status
	}
	return 0
}

// Message returns the user-facing text for err. Errors that did not come
// from the adapter are returned verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}
