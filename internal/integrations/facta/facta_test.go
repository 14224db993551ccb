package facta

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/clt-simulator/internal/config"
)

// fakeFacta serves canned bodies per path and records the requests it saw
type fakeFacta struct {
	mu       sync.Mutex
	status   map[string]int
	bodies   map[string]string
	requests map[string][]url.Values
	headers  map[string][]http.Header
}

func newFakeFacta() *fakeFacta {
	return &fakeFacta{
		status:   map[string]int{},
		bodies:   map[string]string{"/gera-token": `{"erro":false,"token":"tok-1","mensagem":"ok"}`},
		requests: map[string][]url.Values{},
		headers:  map[string][]http.Header{},
	}
}

func (f *fakeFacta) set(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
	f.bodies[path] = body
}

func (f *fakeFacta) calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests[path])
}

func (f *fakeFacta) lastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[path]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

func (f *fakeFacta) header(path string, i int) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[path][i]
}

func (f *fakeFacta) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path] = append(f.requests[r.URL.Path], r.URL.Query())
	f.headers[r.URL.Path] = append(f.headers[r.URL.Path], r.Header.Clone())
	status, ok := f.status[r.URL.Path]
	if !ok {
		status = http.StatusOK
	}
	body := f.bodies[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		FactaURL:      baseURL,
		FactaLogin:    "96676",
		FactaPassword: "secret",
		FactaTimeout:  5 * time.Second,
		UserAgent:     "test-agent",
		TokenTTL:      50 * time.Minute,
	}
}

// newTestClient starts a fake upstream and returns a client wired to it
func newTestClient(t *testing.T) (*Client, *TokenProvider, *fakeFacta) {
	t.Helper()
	fake := newFakeFacta()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	log := testLogger()
	tokens := NewTokenProvider(cfg, log, nil)
	return NewClient(cfg, tokens, log, nil), tokens, fake
}

func requireCategory(t *testing.T, err error, c Category) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, c, CategoryOf(err), "unexpected error: %v", err)
}

var bg = context.Background()
