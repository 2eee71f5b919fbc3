package restclient

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-rest-client/pkg/httpclient"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// Host is the API base, e.g. "https://api.example.com". It is not validated.
	Host string
	// APIKey, when set, is sent as "Authorization: Bearer <APIKey>".
	APIKey string
	// Headers are sent with every request.
	Headers map[string]string
	// Version is rendered as /v{Version} after the host. Zero omits it.
	Version int
	// Timeout bounds each request when Transport is nil.
	Timeout time.Duration
	// Transport overrides the default resty transport.
	Transport httpclient.Doer
	Logger    Logger
}

// Client accumulates path segments and dispatches requests against a versioned API.
type Client struct {
	host      string
	version   int
	headers   map[string]string
	transport httpclient.Doer
	log       Logger

	urlPath map[int]any
	count   int

	statusCode      int
	body            []byte
	responseHeaders http.Header
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	if opts.Version < 0 {
		return nil, fmt.Errorf("invalid api version %d (must not be negative)", opts.Version)
	}

	transport := opts.Transport
	if transport == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport = httpclient.NewRestyClient(timeout)
	}

	headers := make(map[string]string, len(opts.Headers)+1)
	for k, v := range opts.Headers {
		if k = canonicalKey(k); k != "" {
			headers[k] = v
		}
	}
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		headers[headerAuthorization] = "Bearer " + key
	}

	return &Client{
		host:      strings.TrimSpace(opts.Host),
		version:   opts.Version,
		headers:   headers,
		transport: transport,
		log:       ensureLogger(opts.Logger),
		urlPath:   make(map[int]any),
	}, nil
}

// Clone returns an independent client sharing host, version, headers and transport
// but with an empty path and no response.
func (c *Client) Clone() *Client {
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return &Client{
		host:      c.host,
		version:   c.version,
		headers:   headers,
		transport: c.transport,
		log:       c.log,
		urlPath:   make(map[int]any),
	}
}

// Host returns the configured base host.
func (c *Client) Host() string { return c.host }

// Version returns the API version used in built URLs.
func (c *Client) Version() int { return c.version }

// SetVersion changes the API version and returns the client for chaining.
func (c *Client) SetVersion(v int) *Client {
	c.version = v
	return c
}

// RequestHeaders returns the live header mapping sent with every request.
// Keys are canonical (see http.CanonicalHeaderKey). Mutations are visible to
// subsequent requests; prefer SetHeaders so keys stay canonical.
func (c *Client) RequestHeaders() map[string]string { return c.headers }

// SetHeaders merges headers into the request headers. Keys match case-insensitively,
// so "x-mock" replaces "X-Mock".
func (c *Client) SetHeaders(headers map[string]string) {
	for k, v := range headers {
		if k = canonicalKey(k); k != "" {
			c.headers[k] = v
		}
	}
}

// RemoveHeader deletes a request header, matching the key case-insensitively.
func (c *Client) RemoveHeader(key string) {
	delete(c.headers, canonicalKey(key))
}

func canonicalKey(k string) string {
	return http.CanonicalHeaderKey(strings.TrimSpace(k))
}

// StatusCode returns the status of the last response, or 0 before any request completed.
func (c *Client) StatusCode() int { return c.statusCode }

// Body returns the raw body of the last response.
func (c *Client) Body() []byte { return c.body }

// ResponseHeaders returns the headers of the last response.
func (c *Client) ResponseHeaders() http.Header { return c.responseHeaders }

func (c *Client) setResponse(resp httpclient.Response) {
	c.statusCode = resp.StatusCode()
	c.body = resp.Body()
	c.responseHeaders = resp.Header()
}
