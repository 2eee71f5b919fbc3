package restclient

import (
	"context"
	"net/http"
	"strings"
)

// RequestFunc issues a request for a verb bound by Attr.
type RequestFunc func(ctx context.Context, opts ...RequestOption) (*Response, error)

var verbs = map[string]string{
	"delete": http.MethodDelete,
	"get":    http.MethodGet,
	"patch":  http.MethodPatch,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
}

// Methods returns the verb names recognised by Attr, sorted.
func Methods() []string {
	return []string{"delete", "get", "patch", "post", "put"}
}

// IsMethod reports whether name is a dispatchable verb name.
func IsMethod(name string) bool {
	_, ok := verbs[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Attr resolves name dynamically. A verb name returns a RequestFunc bound to this
// client and a nil *Client; any other name is appended as a path segment and the
// client is returned for further chaining.
func (c *Client) Attr(name string) (RequestFunc, *Client) {
	if method, ok := verbs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return func(ctx context.Context, opts ...RequestOption) (*Response, error) {
			return c.do(ctx, method, opts...)
		}, nil
	}
	return nil, c.Segment(name)
}

// Get dispatches a GET for the current path.
func (c *Client) Get(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, opts...)
}

// Post dispatches a POST for the current path.
func (c *Client) Post(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, opts...)
}

// Put dispatches a PUT for the current path.
func (c *Client) Put(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, opts...)
}

// Patch dispatches a PATCH for the current path.
func (c *Client) Patch(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, opts...)
}

// Delete dispatches a DELETE for the current path.
func (c *Client) Delete(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, opts...)
}
