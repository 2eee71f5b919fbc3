package restclient

import (
	"strings"
	"testing"
)

func TestBuildURLWithQuery(t *testing.T) {
	c := newTestClient(t, Options{Host: "H", Version: 3})
	c.Segment("here").Segment("there").Segment(1)

	got := c.BuildURL(map[string]any{"hello": 0, "world": 1})
	if want := "H/v3/here/there/1?hello=0&world=1"; got != want {
		t.Fatalf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildURLWithoutQuery(t *testing.T) {
	c := newTestClient(t, Options{Host: "https://api.example.com", Version: 2})
	c.Segment("api_keys").Segment("abc")

	if got, want := c.BuildURL(nil), "https://api.example.com/v2/api_keys/abc"; got != want {
		t.Fatalf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildURLUnversioned(t *testing.T) {
	c := newTestClient(t, Options{Host: "http://h"})
	c.Segment("status")

	if got, want := c.BuildURL(nil), "http://h/status"; got != want {
		t.Fatalf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildURLPreservesSegmentOrder(t *testing.T) {
	sequences := [][]any{
		{},
		{"a"},
		{"z", "y", "x"},
		{1, "two", 3, "four"},
		{"users", 1234567, "keys", "k-1"},
	}
	for _, seq := range sequences {
		c := newTestClient(t, Options{Host: "H", Version: 1})
		c.Segments(seq...)

		parts := make([]string, 0, len(seq))
		for _, s := range seq {
			parts = append(parts, formatSegment(s))
		}
		want := "H/v1"
		if len(parts) > 0 {
			want += "/" + strings.Join(parts, "/")
		}
		if got := c.BuildURL(nil); got != want {
			t.Errorf("BuildURL(%v) = %q, want %q", seq, got, want)
		}
	}
}

func TestBuildURLEncodesQuery(t *testing.T) {
	c := newTestClient(t, Options{Host: "H", Version: 3})
	c.Segment("search")

	got := c.BuildURL(map[string]any{
		"q":    "a b&c",
		"ids":  []int{1, 2},
		"tags": []string{"x", "y"},
		"on":   true,
	})
	want := "H/v3/search?ids=1&ids=2&on=true&q=a+b%26c&tags=x&tags=y"
	if got != want {
		t.Fatalf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildVersionedURL(t *testing.T) {
	c := newTestClient(t, Options{Host: "H", Version: 3})
	url := "/api_keys?hello=1&world=2"

	if got, want := c.BuildVersionedURL(url), "H/v3"+url; got != want {
		t.Fatalf("BuildVersionedURL = %q, want %q", got, want)
	}
}

func TestBuildURLDoesNotValidateHost(t *testing.T) {
	c := newTestClient(t, Options{Host: "not a host", Version: 1})
	c.Segment("x")

	if got, want := c.BuildURL(nil), "not a host/v1/x"; got != want {
		t.Fatalf("BuildURL = %q, want %q", got, want)
	}
}
