package client

import "fmt"

// ErrTransport indicates the request never produced an HTTP response:
// connection refused, DNS failure, timeout or cancellation.
type ErrTransport struct {
	Op  string
	Err error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrDecode indicates the server answered with a body that is not the
// expected JSON.
type ErrDecode struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("%s: decode response (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
}

func (e *ErrDecode) Unwrap() error { return e.Err }

// ErrAPI is returned by calls other than UpdateMastery when the server
// reports an application error.
type ErrAPI struct {
	StatusCode int
	Message    string
}

func (e *ErrAPI) Error() string {
	return fmt.Sprintf("api error (HTTP %d): %s", e.StatusCode, e.Message)
}
