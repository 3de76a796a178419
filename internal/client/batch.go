package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/postdash/internal/types"
)

// fetchConcurrency caps how many detail fetches run at once
const fetchConcurrency = 8

// FetchResult is the outcome of one collection detail fetch. Either
// Collection or Err is set, never both.
type FetchResult struct {
	Collection *types.Collection
	Err        error
}

// FetchAll fetches the full tree of every listed collection concurrently
// and returns one result per id. The batch settles only when every fetch
// has succeeded or individually failed: a slow or failing collection never
// blocks or voids the others, so the group's error is always nil.
func (c *Client) FetchAll(ctx context.Context, ids []string) map[string]FetchResult {
	results := make(map[string]FetchResult, len(ids))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			col, err := c.GetCollection(ctx, id)

			mu.Lock()
			results[id] = FetchResult{Collection: col, Err: err}
			mu.Unlock()

			// Errors are captured per id, not propagated
			return nil
		})
	}

	// Wait cannot fail since no goroutine returns an error
	_ = g.Wait()

	return results
}
