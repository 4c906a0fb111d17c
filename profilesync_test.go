package recagent

import (
	"context"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// viewState records every record pushed into the "form" by ProfileSync.
type viewState struct {
	mu      sync.Mutex
	applied []UserRecord
}

func (v *viewState) apply(record UserRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applied = append(v.applied, record)
}

func (v *viewState) records() []UserRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]UserRecord(nil), v.applied...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestProfileSyncAppliesOptimisticallyThenRefetchesOnce(t *testing.T) {
	var fetches atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/update-research":
			jsonResponse(w, http.StatusOK, `{"institution":"Optimistic","research_interests":["rl"]}`)
		case "/api/userinfo":
			fetches.Add(1)
			jsonResponse(w, http.StatusOK, `{"institution":"Authoritative","research_interests":["rl","bandits"]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	seedSession(t, client, "tok-123")

	view := &viewState{}
	ps := NewProfileSync(client, view.apply)
	defer ps.Close()

	record, err := ps.UpdateResearch(context.Background(), UpdateResearchRequest{Institution: "Optimistic"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.Institution != "Optimistic" {
		t.Fatalf("Institution = %q", record.Institution)
	}

	// The optimistic apply happens before any re-fetch.
	if got := view.records(); len(got) != 1 || got[0].Institution != "Optimistic" {
		t.Fatalf("optimistic apply = %+v", got)
	}

	if !waitFor(t, time.Second, func() bool { return len(view.records()) == 2 }) {
		t.Fatal("re-fetch never reconciled the view")
	}
	if got := view.records()[1]; got.Institution != "Authoritative" {
		t.Fatalf("reconciled record = %+v", got)
	}
	if got := client.Sessions().Current().Identity.Institution; got != "Authoritative" {
		t.Fatalf("cache = %q", got)
	}

	// Exactly one authoritative fetch, even after waiting past the delay again.
	time.Sleep(60 * time.Millisecond)
	if n := fetches.Load(); n != 1 {
		t.Fatalf("userinfo fetched %d times, want 1", n)
	}
}

func TestProfileSyncCloseCancelsPendingRefetch(t *testing.T) {
	var fetches atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/update-research":
			jsonResponse(w, http.StatusOK, `{"institution":"Optimistic"}`)
		case "/api/userinfo":
			fetches.Add(1)
			jsonResponse(w, http.StatusOK, `{"institution":"Late"}`)
		}
	}))
	seedSession(t, client, "tok-123")

	view := &viewState{}
	ps := NewProfileSync(client, view.apply)

	if _, err := ps.UpdateResearch(context.Background(), UpdateResearchRequest{Institution: "Optimistic"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	ps.Close()

	time.Sleep(80 * time.Millisecond)
	if n := fetches.Load(); n != 0 {
		t.Fatalf("re-fetch fired after Close (%d requests)", n)
	}
	if got := view.records(); len(got) != 1 {
		t.Fatalf("view written after Close: %+v", got)
	}
	if got := client.Sessions().Current().Identity.Institution; got != "Optimistic" {
		t.Fatalf("cache written after Close: %q", got)
	}
}

func TestProfileSyncFailedMutationSchedulesNothing(t *testing.T) {
	var fetches atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/update-research":
			jsonResponse(w, http.StatusUnprocessableEntity, `{"message":"nope"}`)
		case "/api/userinfo":
			fetches.Add(1)
			jsonResponse(w, http.StatusOK, `{}`)
		}
	}))
	seeded := seedSession(t, client, "tok-123")

	view := &viewState{}
	ps := NewProfileSync(client, view.apply)
	defer ps.Close()

	if _, err := ps.UpdateResearch(context.Background(), UpdateResearchRequest{}); err == nil {
		t.Fatal("expected an error")
	}

	time.Sleep(80 * time.Millisecond)
	if n := fetches.Load(); n != 0 {
		t.Fatalf("re-fetch scheduled after failure (%d requests)", n)
	}
	if len(view.records()) != 0 {
		t.Fatal("view written after failure")
	}
	if !reflect.DeepEqual(client.Sessions().Current().Identity, seeded) {
		t.Fatal("cache mutated after failure")
	}
}

func TestProfileSyncNewerMutationSupersedesPendingRefetch(t *testing.T) {
	var fetches atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/update-research":
			jsonResponse(w, http.StatusOK, `{"institution":"Optimistic"}`)
		case "/api/userinfo":
			fetches.Add(1)
			jsonResponse(w, http.StatusOK, `{"institution":"Authoritative"}`)
		}
	}))
	seedSession(t, client, "tok-123")

	ps := NewProfileSync(client, nil)
	defer ps.Close()

	for i := 0; i < 3; i++ {
		if _, err := ps.UpdateResearch(context.Background(), UpdateResearchRequest{Institution: "Optimistic"}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	if !waitFor(t, time.Second, func() bool { return fetches.Load() == 1 }) {
		t.Fatal("superseding re-fetch never fired")
	}
	time.Sleep(60 * time.Millisecond)
	if n := fetches.Load(); n != 1 {
		t.Fatalf("userinfo fetched %d times, want 1", n)
	}
}
