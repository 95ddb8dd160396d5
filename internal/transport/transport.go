// Package transport is the sole point of network I/O: a thin request/response
// wrapper that every data source fetches through.
package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Interpretation selects how a response body is decoded into the envelope's
// parsed value.
type Interpretation string

const (
	InterpretJSON Interpretation = "json"
	InterpretXML  Interpretation = "xml"
	InterpretText Interpretation = "text"
)

// Request describes one HTTP fetch. Treat it as immutable once handed to
// Fetch.
type Request struct {
	URL       string
	Method    string // defaults to GET
	Header    map[string]string
	Interpret Interpretation // defaults to InterpretText
}

// Response is the envelope for one completed request. It is built exactly
// once, when the underlying transport signals completion, and never mutated
// afterwards.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Raw        []byte
	Parsed     any
}

// OK reports whether the response completed with a success status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues HTTP requests. It performs exactly one network operation per
// Fetch call; retries and timeouts beyond the http.Client's are the caller's
// concern.
type Client struct {
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a transport client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch performs the request and returns the response envelope.
//
// Transport-level failures (connection refused, DNS, context cancellation)
// return an *Error of KindTransport with a nil Response. Completed responses
// outside the 2xx range return an *Error of KindHTTPStatus carrying the full
// envelope. Body parse failures never fail the fetch: the parsed value
// silently degrades to the raw text and the caller must check the shape it
// got.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: req.URL, Err: err}
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: req.URL, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: req.URL, Err: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header.Clone(),
		Raw:        raw,
	}
	resp.Parsed = c.parseBody(req, raw)

	if !resp.OK() {
		return nil, &Error{Kind: KindHTTPStatus, URL: req.URL, Response: resp}
	}
	return resp, nil
}

func (c *Client) parseBody(req Request, raw []byte) any {
	parsed, err := interpret(req.Interpret, raw)
	if err != nil {
		// Deliberate policy: a body that does not match its interpretation
		// tag degrades to raw text instead of failing the fetch.
		c.logger.Debug("body parse failed, keeping raw text",
			"url", req.URL, "interpret", string(req.Interpret), "error", err)
		return string(raw)
	}
	return parsed
}
