package restclient

import (
	"bytes"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const errorBodySnippetBytes = 512

// StatusError is returned by a dispatch when the API answers with a non-2xx status.
// The full response is still available on the client.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func newStatusError(method, url string, status int, contentType string, body []byte) *StatusError {
	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       readBodySnippet(contentType, body),
	}
}

// readBodySnippet returns a short, readable form of an error body. HTML pages (usually
// from a proxy or gateway in front of the API) are reduced to their title and heading.
func readBodySnippet(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if isHTML(contentType) {
		if summary := summarizeHTML(body); summary != "" {
			return truncate(summary)
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func summarizeHTML(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	heading := strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
	switch {
	case title == "":
		return heading
	case heading == "" || heading == title:
		return title
	default:
		return title + ": " + heading
	}
}

// truncate cuts s to at most errorBodySnippetBytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= errorBodySnippetBytes {
		return s
	}
	cut := errorBodySnippetBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
