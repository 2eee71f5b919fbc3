package httpclient

import (
	"context"
	"net/http"
)

// Request is a fully assembled HTTP request: method, absolute URL, headers and an optional body.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Doer abstracts HTTP calls so callers can inject mocks or different transports.
type Doer interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// DoerFunc adapts a plain function to the Doer interface.
type DoerFunc func(ctx context.Context, req Request) (Response, error)

// Execute calls f(ctx, req).
func (f DoerFunc) Execute(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
