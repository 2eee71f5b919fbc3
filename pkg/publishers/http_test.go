package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-rest-client/internal/domain"
)

func TestHTTPPublisherSuccess(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		var evt Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received <- evt
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	evt := NewEvent("smoke", domain.CallRecord{ID: "c1", Call: "list", Method: http.MethodGet, StatusCode: 200})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got := <-received
	if got.ID != evt.ID || got.Script != "smoke" || got.Call.Call != "list" {
		t.Fatalf("unexpected event delivered: %+v", got)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestHTTPPublisherDefaultsToPost(t *testing.T) {
	methods := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods <- r.Method
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: " " + srv.URL + " "},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}
	if err := pub.Publish(context.Background(), Event{ID: "e1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := <-methods; got != http.MethodPost {
		t.Fatalf("method = %s, want POST", got)
	}
}

func TestSinkBuildersValidateConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := newHTTPPublisher(ctx, PublisherConfig{ID: "h", HTTP: &HTTPPublisherConfig{}}, nil); err == nil {
		t.Errorf("http: expected missing url error")
	}
	if _, err := newSQSPublisher(ctx, PublisherConfig{ID: "q", SQS: &SQSPublisherConfig{QueueURL: "https://q"}}, nil); err == nil {
		t.Errorf("sqs: expected missing region error")
	}
	if _, err := newSNSPublisher(ctx, PublisherConfig{ID: "s", SNS: &SNSPublisherConfig{Region: "eu-west-1"}}, nil); err == nil {
		t.Errorf("sns: expected missing topic_arn error")
	}
	if _, err := newGCPPubSubPublisher(ctx, PublisherConfig{ID: "g", GCPPubSub: &GCPPubSubPublisherConfig{Topic: "t"}}, nil); err == nil {
		t.Errorf("gcp_pubsub: expected missing project_id error")
	}
}

func TestBodySnippetKeepsRunesWhole(t *testing.T) {
	body := []byte(strings.Repeat("a", httpErrorSnippetBytes-1) + "ü")
	got := bodySnippet(body)
	if !utf8.ValidString(got) || len(got) != httpErrorSnippetBytes-1 {
		t.Fatalf("bodySnippet returned %d bytes, valid=%t", len(got), utf8.ValidString(got))
	}
}
