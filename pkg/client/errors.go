package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorises a Fault.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindUnauthorized is HTTP 401; it always forces a session logout.
	KindUnauthorized
	// KindForbidden is HTTP 403.
	KindForbidden
	// KindNotFound is HTTP 404.
	KindNotFound
	// KindServer is any HTTP 5xx.
	KindServer
	// KindRequest is any other non-2xx status.
	KindRequest
	// KindApplication is a 2xx response whose envelope code is not the success code.
	KindApplication
	// KindDecode means the response body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindRequest:
		return "request"
	case KindApplication:
		return "application"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Fault is the error returned for every failed API call.
type Fault struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 when no response arrived
	Code       int    // envelope code, 0 when absent
	Message    string // server-supplied message, may be empty
	Err        error  // underlying transport or decode error
}

func (f *Fault) Error() string {
	switch f.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %v", f.Err)
	case KindApplication:
		return fmt.Sprintf("api code %d: %s", f.Code, f.UserMessage())
	case KindDecode:
		return fmt.Sprintf("decode response: %v", f.Err)
	}
	msg := f.Message
	if msg == "" {
		msg = http.StatusText(f.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", f.StatusCode, msg)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// UserMessage returns the categorised, human-readable text shown to users.
func (f *Fault) UserMessage() string {
	switch f.Kind {
	case KindNetwork:
		return "Network error, please check your connection"
	case KindUnauthorized:
		return "Your session has expired, please log in again"
	case KindForbidden:
		return "You do not have permission to access this resource"
	case KindNotFound:
		return "The requested resource does not exist"
	case KindServer:
		return "Server error, please try again later"
	case KindDecode:
		return "Unexpected response from server"
	}
	if f.Message != "" {
		return f.Message
	}
	return "Request failed"
}

// IsStatus returns true if err (or any wrapped error) is a Fault with the given HTTP status code.
func IsStatus(err error, code int) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.StatusCode == code
	}
	return false
}

// IsKind returns true if err (or any wrapped error) is a Fault of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// UserMessage returns the user-facing text for any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.UserMessage()
	}
	return err.Error()
}

func faultForStatus(status int, message string) *Fault {
	f := &Fault{StatusCode: status, Message: message}
	switch {
	case status == http.StatusUnauthorized:
		f.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		f.Kind = KindForbidden
	case status == http.StatusNotFound:
		f.Kind = KindNotFound
	case status >= 500:
		f.Kind = KindServer
	default:
		f.Kind = KindRequest
	}
	return f
}
