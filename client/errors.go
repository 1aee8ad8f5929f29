package client

import "fmt"

// RequestError indicates a transport-level failure: the HTTP call did not
// produce a 2xx response after the transport exhausted its retry budget.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError indicates the expected structure was absent from a successful
// response body.
type ParseError struct {
	URL string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Msg)
}
