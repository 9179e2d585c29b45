package remote

import (
	"fmt"
	"strconv"
)

// Method is the read-only enumeration of HTTP verbs the pipeline understands.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Request describes one outbound call. A Request is treated as immutable once
// built: a middleware that wants to alter one derives a copy via Clone and
// forwards the copy, leaving the original untouched for outer frames.
type Request struct {
	Path    string
	Method  Method
	Headers map[string]string
	// Params holds query parameters. Values may be strings or numbers; they
	// are formatted at the transport boundary.
	Params map[string]any
	// Body is the payload for write-style methods, nil otherwise.
	Body any
}

// NewGetRequest builds a read request for the given path.
func NewGetRequest(path string, params map[string]any) *Request {
	return &Request{
		Path:    path,
		Method:  MethodGet,
		Headers: make(map[string]string),
		Params:  cloneParams(params),
	}
}

// NewPostRequest builds a write request for the given path.
func NewPostRequest(path string, body any, params map[string]any) *Request {
	return &Request{
		Path:    path,
		Method:  MethodPost,
		Headers: make(map[string]string),
		Params:  cloneParams(params),
		Body:    body,
	}
}

// Clone returns a copy of the request with its own header and parameter maps.
// The body is shared; it is never mutated by the pipeline.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	return &Request{
		Path:    r.Path,
		Method:  r.Method,
		Headers: cloneHeaders(r.Headers),
		Params:  cloneParams(r.Params),
		Body:    r.Body,
	}
}

func cloneHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func cloneParams(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// formatParams renders query parameter values into the string form the
// transport expects.
func formatParams(p map[string]any) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = FormatParamValue(v)
	}
	return out
}

// FormatParamValue renders a single query parameter value the way the
// transport will send it.
func FormatParamValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
