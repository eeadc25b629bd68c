package crawl

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the largest ID list a single YouTube list call accepts.
const MaxBatchSize = 50

// BatchFunc fetches everything for one chunk of IDs. It may return partial items with an error.
type BatchFunc[T any] func(ctx context.Context, ids []string) ([]T, error)

// Chunk splits ids into consecutive chunks of at most limit elements, keeping input order.
// A limit outside 1..MaxBatchSize is clamped to MaxBatchSize.
func Chunk(ids []string, limit int) [][]string {
	if limit <= 0 || limit > MaxBatchSize {
		limit = MaxBatchSize
	}

	chunks := make([][]string, 0, (len(ids)+limit-1)/limit)
	for start := 0; start < len(ids); start += limit {
		end := min(start+limit, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// BatchAndFetch fetches every chunk of ids concurrently and merges the results in chunk order.
// A limit outside 1..MaxBatchSize is clamped to MaxBatchSize, as in Chunk.
// concurrency bounds the number of chunks in flight; 0 or less means unbounded.
// A failing chunk keeps whatever it returned and never affects its siblings; all chunk
// failures are joined into the returned error.
func BatchAndFetch[T any](ctx context.Context, ids []string, limit, concurrency int, fetch BatchFunc[T]) ([]T, error) {
	logger := zerolog.Ctx(ctx)
	if limit > MaxBatchSize {
		logger.Debug().Int("requested", limit).Int("limit", MaxBatchSize).Msg("Batch size capped")
	}

	chunks := Chunk(ids, limit)
	if len(chunks) == 0 {
		return make([]T, 0), nil
	}

	results := make([][]T, len(chunks))
	errs := make([]error, len(chunks))

	var eg errgroup.Group
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, chunk := range chunks {
		eg.Go(func() error {
			items, err := fetch(ctx, chunk)
			results[i] = items
			if err != nil {
				logger.Error().Err(err).Int("chunk", i).Int("chunk_size", len(chunk)).Msg("Batch fetch failed")
				errs[i] = fmt.Errorf("chunk %d: %w", i, err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	merged := make([]T, 0, len(ids))
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, errors.Join(errs...)
}
