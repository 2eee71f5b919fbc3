package restclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-rest-client/pkg/httpclient"
)

// Response is the outcome of one dispatch. The same values are kept on the client
// until the next request.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

type requestConfig struct {
	query   map[string]any
	body    any
	headers map[string]string
}

// RequestOption configures a single dispatch.
type RequestOption func(*requestConfig)

// WithQuery sets the query parameters of the request.
func WithQuery(params map[string]any) RequestOption {
	return func(rc *requestConfig) {
		rc.query = params
	}
}

// WithBody sets the request body. []byte and string are sent as-is; other values are JSON encoded.
func WithBody(body any) RequestOption {
	return func(rc *requestConfig) {
		rc.body = body
	}
}

// WithHeaders merges headers into the client's request headers before sending.
// They stay on the client until removed with RemoveHeader.
func WithHeaders(headers map[string]string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			rc.headers[k] = v
		}
	}
}

// do builds the URL, sends the request and records the response.
// The path is reset whatever the outcome.
func (c *Client) do(ctx context.Context, method string, opts ...RequestOption) (*Response, error) {
	defer c.Reset()

	var rc requestConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&rc)
		}
	}
	if len(rc.headers) > 0 {
		c.SetHeaders(rc.headers)
	}

	url := c.BuildURL(rc.query)
	req := httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: c.outgoingHeaders(rc.body != nil),
		Body:    requestBody(rc.body),
	}

	start := time.Now()
	resp, err := c.transport.Execute(ctx, req)
	if err != nil {
		c.log.WarnObj("api request failed", "api_request_error", map[string]any{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	c.setResponse(resp)

	c.log.DebugObj("api request completed", "api_request", map[string]any{
		"method":     method,
		"url":        url,
		"status":     c.statusCode,
		"body_bytes": len(c.body),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	out := &Response{
		StatusCode: c.statusCode,
		Body:       c.body,
		Header:     c.responseHeaders,
	}
	if c.statusCode < 200 || c.statusCode > 299 {
		return out, newStatusError(method, url, c.statusCode, c.responseHeaders.Get(headerContentType), c.body)
	}
	return out, nil
}

// outgoingHeaders copies the request headers, adding a JSON content type for bodies
// when none is configured.
func (c *Client) outgoingHeaders(hasBody bool) map[string]string {
	out := make(map[string]string, len(c.headers)+1)
	hasContentType := false
	for k, v := range c.headers {
		k = canonicalKey(k)
		out[k] = v
		if k == headerContentType {
			hasContentType = true
		}
	}
	if hasBody && !hasContentType {
		out[headerContentType] = "application/json"
	}
	return out
}

func requestBody(body any) any {
	if s, ok := body.(string); ok {
		return []byte(s)
	}
	return body
}
