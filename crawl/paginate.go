// Package crawl walks paginated YouTube list calls and fans large ID sets out in batches.
package crawl

import (
	"context"

	"github.com/researchaccelerator-hub/ytstats/model/youtube"
	"github.com/rs/zerolog"
)

// DefaultMaxPages bounds FetchAll when the API keeps handing out fresh tokens.
const DefaultMaxPages = 1000

// ListFunc fetches one page. An empty pageToken asks for the first page.
type ListFunc[T any] func(ctx context.Context, pageToken string) (*youtube.Page[T], error)

// FetchAll calls list repeatedly, carrying the continuation token forward, until the API reports
// no further token. A page with no items, a token that was already seen, or DefaultMaxPages
// calls end the walk. On an error the walk stops and the items gathered so far are returned
// together with the error; nothing is retried.
func FetchAll[T any](ctx context.Context, list ListFunc[T]) ([]T, error) {
	return FetchAllLimit(ctx, list, DefaultMaxPages)
}

// FetchAllLimit is FetchAll with an explicit page cap.
func FetchAllLimit[T any](ctx context.Context, list ListFunc[T], maxPages int) ([]T, error) {
	logger := zerolog.Ctx(ctx)
	items := make([]T, 0)
	seen := make(map[string]struct{})
	pageToken := ""

	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("Pagination cancelled")
			return items, err
		}

		resp, err := list(ctx, pageToken)
		if err != nil {
			logger.Error().Err(err).Int("page", page).Int("items", len(items)).Msg("List call failed, keeping partial results")
			return items, err
		}
		if resp == nil || len(resp.Items) == 0 {
			logger.Debug().Int("page", page).Msg("Empty page, stopping pagination")
			return items, nil
		}
		items = append(items, resp.Items...)

		next := resp.NextPageToken
		if next == "" {
			return items, nil
		}
		if _, dup := seen[next]; dup {
			logger.Warn().Str("page_token", next).Int("page", page).Msg("Page token repeated, stopping pagination")
			return items, nil
		}
		seen[next] = struct{}{}
		pageToken = next
	}

	logger.Warn().Int("max_pages", maxPages).Int("items", len(items)).Msg("Page limit reached, stopping pagination")
	return items, nil
}
