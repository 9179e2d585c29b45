package remote

import "fmt"

// NetworkError reports that the transport produced no response at all
// (DNS failure, refused connection, cut socket). It wraps the cause.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a response whose status is not success. Body holds the
// decoded error payload as text.
type ServerError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%s): %s", e.Status, e.Body)
}

// UnimplementedError is returned by the chain's terminal handler when asked
// to perform a write-style request. The terminal handler only issues reads;
// writes go through the client's direct path. This is a contract, not a
// transient condition, and must not be retried.
type UnimplementedError struct {
	Method Method
	Path   string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("terminal handler does not support %s requests (path %q)", e.Method, e.Path)
}
