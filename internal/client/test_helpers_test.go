package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is a request seen by the fake server.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

// fakeCML is a minimal CML API. Login always succeeds with "abc123"
// unless overridden.
type fakeCML struct {
	t      *testing.T
	mux    *http.ServeMux
	mu     sync.Mutex
	seen   []recordedRequest
	server *httptest.Server
}

func newFakeCML(t *testing.T) *fakeCML {
	t.Helper()

	fake := &fakeCML{t: t, mux: http.NewServeMux()}
	fake.mux.HandleFunc("POST /api/v0/authenticate", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode("abc123")
	})
	fake.mux.HandleFunc("GET /api/v0/authok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return fake
}

// handle registers a handler for a Go 1.22 mux pattern.
func (f *fakeCML) handle(pattern string, handler http.HandlerFunc) {
	f.mux.HandleFunc(pattern, handler)
}

// respond registers a handler that writes body as JSON with status.
func (f *fakeCML) respond(pattern string, status int, body interface{}) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	})
}

func (f *fakeCML) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.seen = append(f.seen, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})
	f.mu.Unlock()

	r.Body = io.NopCloser(bytes.NewReader(body))
	f.mux.ServeHTTP(w, r)
}

// client starts the server and returns a client pointed at it.
func (f *fakeCML) client() *Client {
	f.t.Helper()

	f.server = httptest.NewServer(f)
	f.t.Cleanup(f.server.Close)

	client, err := New(&cml.Config{
		ServerURL:    f.server.URL,
		Username:     "admin",
		Password:     "secret",
		PollInterval: constants.QuickPollInterval,
	})
	require.NoError(f.t, err)

	client.labs.settleDelay = 0

	return client
}

// requests returns the recorded requests for method and path, excluding logins.
func (f *fakeCML) requests(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []recordedRequest

	for _, req := range f.seen {
		if req.Method == method && req.Path == path {
			matched = append(matched, req)
		}
	}

	return matched
}

// decodeBody unmarshals a recorded JSON body.
func (f *fakeCML) decodeBody(req recordedRequest) map[string]interface{} {
	f.t.Helper()

	var body map[string]interface{}
	require.NoError(f.t, json.Unmarshal([]byte(req.Body), &body))

	return body
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestFakeCMLRecordsRequests(t *testing.T) {
	t.Parallel()

	fake := newFakeCML(t)
	fake.respond("GET /api/v0/labs", http.StatusOK, []string{})
	client := fake.client()

	_, err := client.Labs().List(context.Background())
	require.NoError(t, err)

	reqs := fake.requests(http.MethodGet, "/api/v0/labs")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer abc123", reqs[0].Auth)
	assert.Len(t, fake.requests(http.MethodPost, "/api/v0/authenticate"), 1)
}
