package transport

import "fmt"

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	// KindTransport: the request never completed (network failure, bad
	// request construction, cancelled context). No envelope exists.
	KindTransport ErrorKind = iota
	// KindHTTPStatus: the request completed with a non-2xx status. The
	// full envelope is attached.
	KindHTTPStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http-status"
	default:
		return "unknown"
	}
}

// Error is the failure type for Client.Fetch. Response is nil exactly when
// Kind is KindTransport.
type Error struct {
	Kind     ErrorKind
	URL      string
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Response.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
