package restclient

import (
	"fmt"
	"strconv"
)

// Segment appends v to the URL path and returns the client for chaining.
// Use it directly for segments whose name collides with a verb.
func (c *Client) Segment(v any) *Client {
	c.urlPath[c.count] = v
	c.count++
	return c
}

// Segments appends each value in order.
func (c *Client) Segments(vs ...any) *Client {
	for _, v := range vs {
		c.Segment(v)
	}
	return c
}

// Count returns the number of accumulated path segments.
func (c *Client) Count() int { return c.count }

// PathSegments returns the accumulated segments in insertion order.
func (c *Client) PathSegments() []any {
	out := make([]any, 0, c.count)
	for i := 0; i < c.count; i++ {
		out = append(out, c.urlPath[i])
	}
	return out
}

// Reset clears the accumulated path.
func (c *Client) Reset() {
	c.urlPath = make(map[int]any)
	c.count = 0
}

func formatSegment(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
