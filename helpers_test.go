package recagent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/zhaxinji/recagent-client/session"
)

// recordingNavigator captures redirects issued by the SDK.
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *recordingNavigator) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nav := &recordingNavigator{}

	cfg := defaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Profile.RefetchDelay = 20 * time.Millisecond

	client, err := New().
		WithConfig(cfg).
		WithHTTPClient(srv.Client()).
		WithNavigator(nav).
		Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(client.Close)

	return client, nav
}

func seedSession(t *testing.T, client *Client, credential string) *UserRecord {
	t.Helper()

	identity := &session.Identity{
		UserID:            "u1",
		Name:              "Alice Zhang",
		Email:             "alice@example.edu",
		Institution:       "Example University",
		ResearchInterests: []string{"recommender systems"},
	}
	if err := client.Sessions().Set(context.Background(), credential, identity); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return identity
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
