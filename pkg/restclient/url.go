package restclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildURL renders {host}/v{version}/{segments...}[?query] for the current path.
// Query keys are encoded in sorted order; slice values repeat the key.
func (c *Client) BuildURL(query map[string]any) string {
	var b strings.Builder
	for i := 0; i < c.count; i++ {
		b.WriteByte('/')
		b.WriteString(formatSegment(c.urlPath[i]))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(encodeQuery(query))
	}

	if c.version != 0 {
		return c.BuildVersionedURL(b.String())
	}
	return c.host + b.String()
}

// BuildVersionedURL prefixes an assembled path (and query) with the host and version.
func (c *Client) BuildVersionedURL(path string) string {
	return c.host + "/v" + strconv.Itoa(c.version) + path
}

func encodeQuery(query map[string]any) string {
	values := make(url.Values, len(query))
	for k, v := range query {
		switch vs := v.(type) {
		case []string:
			values[k] = append(values[k], vs...)
		case []int:
			for _, n := range vs {
				values.Add(k, strconv.Itoa(n))
			}
		case []any:
			for _, item := range vs {
				values.Add(k, queryValue(item))
			}
		default:
			values.Add(k, queryValue(v))
		}
	}
	return values.Encode()
}

func queryValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
