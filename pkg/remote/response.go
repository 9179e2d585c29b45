package remote

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Response is the result of one outbound call. Status and headers are
// available as soon as the transport completes; the body is materialized
// lazily so callers that only branch on status never pay the read cost.
type Response struct {
	StatusCode int
	// Status is the full status line text, e.g. "404 Not Found".
	Status  string
	Headers map[string]string

	mu   sync.Mutex
	read func() ([]byte, error)
	body []byte
	err  error
	done bool
}

// NewResponse builds a response whose body is produced by read on first use.
// read is invoked at most once; its result is cached for later calls.
func NewResponse(statusCode int, status string, headers map[string]string, read func() ([]byte, error)) *Response {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &Response{StatusCode: statusCode, Status: status, Headers: headers, read: read}
}

// NewBufferedResponse builds a response over an already-materialized body.
func NewBufferedResponse(statusCode int, status string, headers map[string]string, body []byte) *Response {
	resp := NewResponse(statusCode, status, headers, nil)
	resp.body = body
	resp.done = true
	return resp
}

// Body returns the response payload, reading it from the transport on the
// first call and serving the cached copy afterwards.
func (r *Response) Body() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return r.body, r.err
	}
	r.done = true
	if r.read == nil {
		return nil, nil
	}
	r.body, r.err = r.read()
	r.read = nil
	return r.body, r.err
}

// JSON decodes the response payload into v.
func (r *Response) JSON(v any) error {
	body, err := r.Body()
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}
