package directory

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRemote matches every non-2xx response.
	ErrRemote = errors.New("directory remote error")
	// ErrUnauthorized matches responses that rejected the bearer credential.
	ErrUnauthorized = errors.New("directory rejected credentials")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("directory record not found")
	// ErrTransport matches requests that never produced a response.
	ErrTransport = errors.New("directory transport error")
	// ErrDecode matches 2xx responses whose body could not be read as a record payload.
	ErrDecode = errors.New("directory response unreadable")
)

// TransportError reports a request that produced no response (offline, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("directory %s: transport error", e.Op)
	}
	return fmt.Sprintf("directory %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrTransport, e.Err}
}

// DecodeError reports a 2xx response with a malformed or oversized body.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("directory %s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrDecode, e.Err}
}

// RemoteError reports a non-2xx response.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		return fmt.Sprintf("directory %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("directory %s: status %d: %s", e.Op, e.Status, msg)
}

func (e *RemoteError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrRemote:
		return true
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

// StatusOf returns the remote status code carried by err, or 0.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
