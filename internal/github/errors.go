package github

import "fmt"

// RequestError is a transport failure or non-2xx response from the hosting API.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError is a response body that is not valid JSON or lacks expected fields.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
