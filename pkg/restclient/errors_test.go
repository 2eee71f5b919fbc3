package restclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReadBodySnippet(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"empty", "application/json", "", ""},
		{"json", "application/json", "  {\"errors\":[]}\n", `{"errors":[]}`},
		{"html title and heading", "text/html; charset=utf-8",
			"<html><head><title>502 Bad Gateway</title></head><body><h1>upstream\n  unavailable</h1></body></html>",
			"502 Bad Gateway: upstream unavailable"},
		{"html same title and heading", "text/html",
			"<html><head><title>Not Found</title></head><body><h1>Not Found</h1></body></html>",
			"Not Found"},
		{"html heading only", "text/html", "<body><h1>Forbidden</h1></body>", "Forbidden"},
		{"html without markers", "text/html", "<p>oops</p>", "<p>oops</p>"},
	}
	for _, tc := range cases {
		if got := readBodySnippet(tc.contentType, []byte(tc.body)); got != tc.want {
			t.Errorf("%s: readBodySnippet = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestReadBodySnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", errorBodySnippetBytes*2)
	if got := readBodySnippet("text/plain", []byte(long)); len(got) != errorBodySnippetBytes {
		t.Fatalf("snippet length = %d", len(got))
	}
}

func TestReadBodySnippetKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("x", errorBodySnippetBytes-1) + "é"
	got := readBodySnippet("application/json", []byte(body))
	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got[len(got)-4:])
	}
	if got != strings.Repeat("x", errorBodySnippetBytes-1) {
		t.Fatalf("snippet length = %d, want %d", len(got), errorBodySnippetBytes-1)
	}
}

func TestStatusErrorFromHTMLGateway(t *testing.T) {
	stub := &stubDoer{
		status: http.StatusBadGateway,
		header: http.Header{"Content-Type": []string{"text/html"}},
		body:   []byte("<html><title>502 Bad Gateway</title></html>"),
	}
	c := newTestClient(t, Options{Host: "H", Version: 3, Transport: stub})

	_, err := c.Segment("x").Get(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Body != "502 Bad Gateway" {
		t.Fatalf("Body = %q", statusErr.Body)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("Error() = %q", err.Error())
	}
}
