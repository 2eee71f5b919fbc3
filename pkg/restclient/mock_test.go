package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-rest-client/pkg/httpclient"
)

type mockAPI struct {
	*httptest.Server
	mu   sync.Mutex
	seen []*http.Request
}

func (m *mockAPI) requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.seen))
	copy(out, m.seen)
	return out
}

// newMockAPI serves every path with the status named by the X-Mock header (default 200).
func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()
	m := &mockAPI{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.seen = append(m.seen, r.Clone(context.Background()))
		m.mu.Unlock()
		status := http.StatusOK
		if raw := r.Header.Get("X-Mock"); raw != "" {
			code, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "bad X-Mock", http.StatusBadRequest)
				return
			}
			status = code
		}
		w.Header().Set("X-Request-Path", r.URL.Path)
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]string{
				{"name": "My API Key", "api_key_id": "qfTQ6KG0QBiwWdJ0-pCLCA"},
			},
		})
	}))
	t.Cleanup(m.Close)
	return m
}

// stubDoer records requests and answers with a fixed response or error.
type stubDoer struct {
	reqs   []httpclient.Request
	status int
	body   []byte
	header http.Header
	err    error
}

func (s *stubDoer) Execute(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return stubResponse{status: status, body: s.body, header: s.header}, nil
}

type stubResponse struct {
	status int
	body   []byte
	header http.Header
}

func (r stubResponse) Body() []byte        { return r.body }
func (r stubResponse) StatusCode() int     { return r.status }
func (r stubResponse) Header() http.Header { return r.header }
