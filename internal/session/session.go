// Package session owns the per-login state of postdash: the credential,
// the collection caches, and the selection set. A Session is created
// explicitly at startup and torn down on logout; nothing lives in package
// globals.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/studiowebux/postdash/internal/client"
	"github.com/studiowebux/postdash/internal/extract"
	"github.com/studiowebux/postdash/internal/selection"
	"github.com/studiowebux/postdash/internal/store"
	"github.com/studiowebux/postdash/internal/types"
)

// Manager holds the session state. Fetches run on background goroutines
// (TUI commands overlap freely), so every access to the caches goes through
// mu. Network calls happen outside the lock. The selection set is only
// touched from the foreground task and needs no guard.
type Manager struct {
	store *store.Store

	// clientOpts lets tests point the session at a fake API
	clientOpts []client.Option

	mu        sync.Mutex
	client    *client.Client
	apiKey    string
	summaries []types.CollectionSummary
	trees     map[string]*types.Collection

	selection *selection.Set
}

// NewManager creates a session backed by the given store. If a credential
// was persisted by a previous session it is restored, so the user lands
// directly on the collection list.
func NewManager(st *store.Store, opts ...client.Option) (*Manager, error) {
	m := &Manager{
		store:      st,
		clientOpts: opts,
		trees:      make(map[string]*types.Collection),
		selection:  selection.NewSet(),
	}

	key, ok, err := st.Get(store.CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored credential: %w", err)
	}
	if ok && key != "" {
		m.apiKey = key
		m.client = client.New(key, opts...)
	}

	return m, nil
}

// Authenticated reports whether a credential is present
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Login validates the key against the remote service (one listing call)
// and persists it on success. An invalid key leaves the stored state
// untouched so a previously working credential survives a typo.
func (m *Manager) Login(ctx context.Context, apiKey string) error {
	candidate := client.New(apiKey, m.clientOpts...)

	summaries, err := candidate.ListCollections(ctx)
	if err != nil {
		return err
	}

	if err := m.store.Set(store.CredentialKey, apiKey); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	m.mu.Lock()
	m.apiKey = apiKey
	m.client = candidate
	m.summaries = summaries
	m.trees = make(map[string]*types.Collection)
	m.mu.Unlock()

	m.selection.Clear()

	return nil
}

// Logout clears the persisted credential and wipes all in-memory session
// state: caches, selection, everything.
func (m *Manager) Logout() error {
	if err := m.store.Delete(store.CredentialKey); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	m.mu.Lock()
	m.apiKey = ""
	m.client = nil
	m.summaries = nil
	m.trees = make(map[string]*types.Collection)
	m.mu.Unlock()

	m.selection.Clear()

	return nil
}

// Collections returns the collection summaries, fetching them on first
// use. The result is a snapshot copy: endpoint counts backfilled by later
// tree fetches appear in subsequent calls, never by mutating a slice a
// caller already holds.
func (m *Manager) Collections(ctx context.Context) ([]types.CollectionSummary, error) {
	m.mu.Lock()
	c := m.client
	haveCache := m.summaries != nil
	snapshot := append([]types.CollectionSummary(nil), m.summaries...)
	m.mu.Unlock()

	if c == nil {
		return nil, client.ErrUnauthorized
	}
	if haveCache {
		return snapshot, nil
	}

	summaries, err := c.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A concurrent fetch may have landed first; keep whichever listing won
	if m.summaries == nil {
		m.summaries = summaries
	}
	snapshot = append([]types.CollectionSummary(nil), m.summaries...)
	m.mu.Unlock()

	return snapshot, nil
}

// RefreshCollections drops the summary cache and fetches a fresh listing
func (m *Manager) RefreshCollections(ctx context.Context) ([]types.CollectionSummary, error) {
	m.mu.Lock()
	m.summaries = nil
	m.mu.Unlock()
	return m.Collections(ctx)
}

// Tree returns a collection's full tree, fetching and caching it on first
// use. Fetched trees are immutable for the rest of the session.
func (m *Manager) Tree(ctx context.Context, id string) (*types.Collection, error) {
	m.mu.Lock()
	c := m.client
	tree, ok := m.trees[id]
	m.mu.Unlock()

	if c == nil {
		return nil, client.ErrUnauthorized
	}
	if ok {
		return tree, nil
	}

	tree, err := c.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A concurrent fetch of the same id may have cached first; keep the
	// cached tree so callers always see one instance per id
	if cached, ok := m.trees[id]; ok {
		tree = cached
	} else {
		m.trees[id] = tree
		m.setEndpointCountLocked(id, extract.Count(tree.Items))
	}
	m.mu.Unlock()

	return tree, nil
}

// FetchAllTrees fetches every listed collection's tree concurrently and
// caches the successes. The returned map carries one error per failed id;
// partial failure of one collection never voids the others.
func (m *Manager) FetchAllTrees(ctx context.Context) (map[string]error, error) {
	summaries, err := m.Collections(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	c := m.client
	m.mu.Unlock()
	if c == nil {
		return nil, client.ErrUnauthorized
	}

	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}

	results := c.FetchAll(ctx, ids)

	failures := make(map[string]error)
	m.mu.Lock()
	for id, result := range results {
		if result.Err != nil {
			failures[id] = result.Err
			continue
		}
		if _, ok := m.trees[id]; !ok {
			m.trees[id] = result.Collection
		}
		m.setEndpointCountLocked(id, extract.Count(m.trees[id].Items))
	}
	m.mu.Unlock()

	return failures, nil
}

// setEndpointCountLocked backfills the lazily computed endpoint count on
// the matching summary. Callers hold mu.
func (m *Manager) setEndpointCountLocked(id string, count int) {
	for i := range m.summaries {
		if m.summaries[i].ID == id {
			m.summaries[i].EndpointCount = count
			return
		}
	}
}

// Selection returns the session's selection set
func (m *Manager) Selection() *selection.Set {
	return m.selection
}

// Store returns the backing local store
func (m *Manager) Store() *store.Store {
	return m.store
}
