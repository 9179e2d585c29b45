package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	headerContentType = "Content-Type"
	headerAPIKey      = "x-api-key"
	headerDatabase    = "x-lancedb-database"

	contentTypeJSON = "application/json"

	// Read-style calls (GET and vector search) run on a short deadline,
	// generic writes on a longer one. Deadlines are applied at the
	// transport boundary only; middlewares cannot observe or extend them.
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
)

// Client is the facade over the request pipeline. It holds connection
// identity (base URL, credential provider, optional tenant database), the
// ordered middleware list and the current call context.
//
// A Client is an immutable value: WithMiddleware and WithCallContext derive
// new clients and never touch the receiver, so a client is safe to share
// across goroutines. The one caveat is the call context itself, which is
// shared by reference across calls on the same client; see CallContext.
type Client struct {
	baseURL     string
	creds       CredentialProvider
	database    string
	middlewares []Middleware
	callCtx     *CallContext
	http        *resty.Client
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithDatabase routes every call to the named logical database of a
// multi-tenant deployment via the x-lancedb-database header.
func WithDatabase(name string) Option {
	return func(c *Client) { c.database = name }
}

// WithHTTPClient substitutes the underlying resty transport.
func WithHTTPClient(hc *resty.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client for the service at baseURL authenticating via
// creds.
func NewClient(baseURL string, creds CredentialProvider, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if creds == nil {
		return nil, fmt.Errorf("credential provider is nil")
	}

	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		callCtx: NewCallContext(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = resty.New()
	}
	return c, nil
}

// WithMiddleware returns a new client whose chain is the receiver's plus mw
// appended. The receiver keeps its own middleware list; later derivations on
// either client never cross-contaminate.
func (c *Client) WithMiddleware(mw Middleware) *Client {
	child := c.clone()
	child.middlewares = append(child.middlewares, mw)
	return child
}

// WithCallContext returns a new client identical to the receiver except its
// call context is replaced by mc. Deriving a fresh client per call is the
// supported way to keep contexts of concurrent calls apart.
func (c *Client) WithCallContext(mc *CallContext) *Client {
	child := c.clone()
	if mc == nil {
		mc = NewCallContext()
	}
	child.callCtx = mc
	return child
}

// clone copies the client with an independent middleware slice.
func (c *Client) clone() *Client {
	mws := make([]Middleware, len(c.middlewares))
	copy(mws, c.middlewares)
	return &Client{
		baseURL:     c.baseURL,
		creds:       c.creds,
		database:    c.database,
		middlewares: mws,
		callCtx:     c.callCtx,
		http:        c.http,
	}
}

// Get issues a read through the middleware chain. Non-2xx responses are
// returned as-is; interpreting the status is left to the caller or to a
// middleware. A *NetworkError is returned when no response was obtainable.
func (c *Client) Get(ctx context.Context, path string, params map[string]any) (*Response, error) {
	req := NewGetRequest(path, params)
	headers, err := c.standardHeaders(ctx, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	req.Headers = headers

	dispatch := Chain(c.middlewares, c.terminal)
	return dispatch(ctx, req, c.callCtx)
}

// terminal is the chain's innermost step: the actual network call. It only
// issues read-style requests; a write-style request reaching it is a
// programming error and fails with *UnimplementedError.
func (c *Client) terminal(ctx context.Context, req *Request, _ *CallContext) (*Response, error) {
	if req.Method != MethodGet {
		return nil, &UnimplementedError{Method: req.Method, Path: req.Path}
	}

	// The deadline lives here, not at the chain level: middlewares cannot
	// observe or extend it. cancel is deferred until the lazy body has been
	// materialized, otherwise the read would be cut off mid-stream.
	ctx, cancel := context.WithTimeout(ctx, readTimeout)

	r := c.http.R().SetContext(ctx).SetDoNotParseResponse(true)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Params) > 0 {
		r.SetQueryParams(formatParams(req.Params))
	}

	target := c.baseURL + req.Path
	resp, err := r.Get(target)
	if err != nil {
		cancel()
		return nil, &NetworkError{URL: target, Err: err}
	}

	raw := resp.RawBody()
	read := func() ([]byte, error) {
		defer cancel()
		defer raw.Close()
		b, err := io.ReadAll(raw)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return b, nil
	}
	return NewResponse(resp.StatusCode(), resp.Status(), flattenHeaders(resp.Header()), read), nil
}

// Post issues a generic write directly against the transport. Writes bypass
// the middleware chain; only reads are routed through it. A non-200 status
// is classified as *ServerError carrying the decoded error body.
func (c *Client) Post(ctx context.Context, path string, body any, params map[string]any, contentType string) (*Response, error) {
	if contentType == "" {
		contentType = contentTypeJSON
	}
	headers, err := c.standardHeaders(ctx, contentType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	r := c.http.R().SetContext(ctx).SetHeaders(headers)
	if len(params) > 0 {
		r.SetQueryParams(formatParams(params))
	}
	if body != nil {
		r.SetBody(body)
	}

	target := c.baseURL + path
	resp, err := r.Post(target)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &ServerError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       string(resp.Body()),
		}
	}
	return NewBufferedResponse(resp.StatusCode(), resp.Status(), flattenHeaders(resp.Header()), resp.Body()), nil
}

// Search runs a vector similarity query against the named table and decodes
// the Arrow-encoded result. Like Post it bypasses the middleware chain and
// classifies non-200 statuses as *ServerError.
func (c *Client) Search(ctx context.Context, table string, query *VectorQuery) (*QueryResult, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("table name is empty")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}
	if err := query.validate(); err != nil {
		return nil, err
	}

	headers, err := c.standardHeaders(ctx, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	target := c.baseURL + "/v1/table/" + url.PathEscape(table) + "/query/"
	resp, err := c.http.R().SetContext(ctx).SetHeaders(headers).SetBody(query).Post(target)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &ServerError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       string(resp.Body()),
		}
	}

	result, err := DecodeTable(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	return result, nil
}

// standardHeaders builds the headers injected on every call: content type,
// the current credential, and the tenant database when configured.
func (c *Client) standardHeaders(ctx context.Context, contentType string) (map[string]string, error) {
	key, err := c.creds.Credential(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve credential: %w", err)
	}

	headers := map[string]string{
		headerContentType: contentType,
		headerAPIKey:      key,
	}
	if c.database != "" {
		headers[headerDatabase] = c.database
	}
	return headers, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
