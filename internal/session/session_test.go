package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/studiowebux/postdash/internal/client"
	"github.com/studiowebux/postdash/internal/extract"
	"github.com/studiowebux/postdash/internal/store"
)

const listBody = `{
	"collections": [
		{"id": "col-1", "name": "My API"},
		{"id": "col-2", "name": "Billing API"},
		{"id": "col-3", "name": "Admin API"}
	]
}`

const collectionBody = `{
	"collection": {
		"info": {"name": "My API"},
		"item": [
			{"name": "List users", "request": {"method": "GET", "url": "https://api.example.com/v1/users"}},
			{"name": "Create user", "request": {"method": "POST", "url": "https://api.example.com/v1/users"}}
		]
	}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/collections", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(listBody))
	})
	mux.HandleFunc("/collections/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(collectionBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "postdash.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoginPersistsCredential(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if mgr.Authenticated() {
		t.Fatalf("expected fresh manager to be unauthenticated")
	}

	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !mgr.Authenticated() {
		t.Errorf("expected manager to be authenticated after login")
	}

	stored, ok, err := st.Get(store.CredentialKey)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || stored != "good-key" {
		t.Errorf("expected credential persisted, got (%q, %v)", stored, ok)
	}
}

func TestLoginRejectsBadKey(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	// Seed a previously working credential
	if err := st.Set(store.CredentialKey, "good-key"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if !mgr.Authenticated() {
		t.Fatalf("expected persisted credential to be restored")
	}

	if err := mgr.Login(context.Background(), "bad-key"); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// The stored credential survives a failed login
	stored, _, err := st.Get(store.CredentialKey)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored != "good-key" {
		t.Errorf("expected stored credential untouched, got %q", stored)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := mgr.Tree(context.Background(), "col-1"); err != nil {
		t.Fatalf("tree fetch failed: %v", err)
	}
	mgr.Selection().Select(extract.Endpoint{Method: "GET", NormalizedPath: "/v1/users"}, "My API")
	if mgr.Selection().Size() != 1 {
		t.Fatalf("expected 1 selected entry")
	}

	if err := mgr.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if mgr.Authenticated() {
		t.Errorf("expected manager to be unauthenticated after logout")
	}

	if _, ok, _ := st.Get(store.CredentialKey); ok {
		t.Errorf("expected credential cleared from store")
	}
	if mgr.Selection().Size() != 0 {
		t.Errorf("expected selection cleared")
	}

	if _, err := mgr.Collections(context.Background()); !errors.Is(err, client.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestTreeCachesAndBackfillsCount(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tree, err := mgr.Tree(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("tree fetch failed: %v", err)
	}
	if len(tree.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tree.Items))
	}

	// Second fetch returns the cached tree
	again, err := mgr.Tree(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("second tree fetch failed: %v", err)
	}
	if again != tree {
		t.Errorf("expected cached tree to be returned")
	}

	summaries, err := mgr.Collections(context.Background())
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	if summaries[0].EndpointCount != 2 {
		t.Errorf("expected endpoint count backfilled to 2, got %d", summaries[0].EndpointCount)
	}
}

func TestConcurrentTreeAndBatchFetch(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A batch fetch and single-tree fetches for the same ids overlap
	// freely in the TUI; the caches must stay consistent throughout
	ids := []string{"col-1", "col-2", "col-3"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := mgr.FetchAllTrees(context.Background()); err != nil {
			t.Errorf("batch fetch failed: %v", err)
		}
	}()
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.Tree(context.Background(), id); err != nil {
				t.Errorf("tree fetch for %s failed: %v", id, err)
			}
		}()
	}
	wg.Wait()

	// Exactly one cached instance per id survives the overlap
	for _, id := range ids {
		first, err := mgr.Tree(context.Background(), id)
		if err != nil {
			t.Fatalf("tree fetch for %s failed: %v", id, err)
		}
		second, err := mgr.Tree(context.Background(), id)
		if err != nil {
			t.Fatalf("second tree fetch for %s failed: %v", id, err)
		}
		if first != second {
			t.Errorf("expected one cached tree for %s", id)
		}
	}

	summaries, err := mgr.Collections(context.Background())
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	for _, s := range summaries {
		if s.EndpointCount != 2 {
			t.Errorf("expected endpoint count 2 for %s, got %d", s.ID, s.EndpointCount)
		}
	}
}

func TestCollectionsReturnsSnapshot(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	before, err := mgr.Collections(context.Background())
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	if before[0].EndpointCount != -1 {
		t.Fatalf("expected count -1 before tree fetch, got %d", before[0].EndpointCount)
	}

	if _, err := mgr.Tree(context.Background(), "col-1"); err != nil {
		t.Fatalf("tree fetch failed: %v", err)
	}

	// The earlier snapshot is never mutated behind the caller's back;
	// the backfilled count shows up in a fresh call instead
	if before[0].EndpointCount != -1 {
		t.Errorf("expected held snapshot untouched, got %d", before[0].EndpointCount)
	}

	after, err := mgr.Collections(context.Background())
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	if after[0].EndpointCount != 2 {
		t.Errorf("expected backfilled count 2, got %d", after[0].EndpointCount)
	}
}

func TestFetchAllTrees(t *testing.T) {
	server := newTestServer(t)
	st := newTestStore(t)

	mgr, err := NewManager(st, client.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Login(context.Background(), "good-key"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	failures, err := mgr.FetchAllTrees(context.Background())
	if err != nil {
		t.Fatalf("fetch all failed: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("expected no failures, got %v", failures)
	}

	summaries, err := mgr.Collections(context.Background())
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	if summaries[0].EndpointCount != 2 {
		t.Errorf("expected endpoint count 2, got %d", summaries[0].EndpointCount)
	}
}
