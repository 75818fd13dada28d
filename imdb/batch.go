package imdb

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency limits how many title fetches run at once.
const DefaultBatchConcurrency = 10

// BatchTitleResult pairs an identifier with its fetch outcome.
type BatchTitleResult struct {
	IMDbID string
	Title  Payload
	Err    error
}

// BatchGetTitles fetches many titles concurrently over the shared
// connection pool. Each fetch is an independent GetTitle call; individual
// failures are captured per item and do not stop the batch. Results keep
// the input order.
func (c *Client) BatchGetTitles(ctx context.Context, imdbIDs ...string) []BatchTitleResult {
	results := make([]BatchTitleResult, len(imdbIDs))
	if len(imdbIDs) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultBatchConcurrency)

	for i, imdbID := range imdbIDs {
		g.Go(func() error {
			title, err := c.GetTitle(ctx, imdbID)
			results[i] = BatchTitleResult{IMDbID: imdbID, Title: title, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
