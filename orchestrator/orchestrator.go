// Package orchestrator drives one aggregation run: resolve identifiers, fetch videos,
// playlists and channels, normalize their statistics and roll them up.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/researchaccelerator-hub/ytstats/client"
	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/crawl"
	"github.com/researchaccelerator-hub/ytstats/ident"
	"github.com/researchaccelerator-hub/ytstats/model"
	"github.com/researchaccelerator-hub/ytstats/model/youtube"
	"github.com/researchaccelerator-hub/ytstats/stats"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize   = crawl.MaxBatchSize
	DefaultConcurrency = 8
)

// Result is the outcome of one run. Diagnostics lists every entry that was skipped.
type Result struct {
	RunID       string                 `json:"run_id"`
	Stats       model.AggregatedResult `json:"stats"`
	Diagnostics []common.Diagnostic    `json:"diagnostics"`
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithBatchSize sets how many IDs go into one list call (clamped to 1..50 by the batcher)
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithConcurrency bounds the number of in-flight chunks and per-entity branches
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger used for progress and skipped entries
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator manages the aggregation workflow
type Orchestrator struct {
	client      client.StatsClient
	batchSize   int
	concurrency int
	logger      zerolog.Logger

	// Status of the current or last run
	mu             sync.RWMutex
	runID          string
	isRunning      bool
	startTime      time.Time
	videoCount     int
	playlistCount  int
	channelCount   int
	skippedEntries int
}

// New creates an orchestrator that fetches through c
func New(c client.StatsClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:      c,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run aggregates the statistics for cfg. It never fails as a whole: every entry that cannot be
// resolved or fetched is left out of the result and reported in Result.Diagnostics.
func (o *Orchestrator) Run(ctx context.Context, cfg model.Config, includeTotal bool) Result {
	runID := common.GenerateRunID()
	logger := o.logger.With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)
	diags := common.NewDiagnostics(logger)

	start := o.begin(runID)
	defer o.end()

	logger.Info().
		Int("videos", len(cfg.Videos)).
		Int("playlists", len(cfg.Playlists)).
		Int("channels", len(cfg.Channels)).
		Msg("Starting aggregation run")

	videoIDs := resolve(cfg.Videos, diags)
	playlistIDs := resolve(cfg.Playlists, diags)
	channelIDs := resolve(cfg.Channels, diags)

	videos := o.fetchVideos(ctx, videoIDs, common.StageVideos, diags)
	playlists := o.fetchPlaylists(ctx, playlistIDs, diags)
	channels := o.fetchChannels(ctx, channelIDs, diags)

	result := Result{
		RunID: runID,
		Stats: model.AggregatedResult{
			Videos:    videos,
			Playlists: playlists,
			Channels:  channels,
			Total:     stats.RollupConfig(videos, playlists, channels, includeTotal),
		},
		Diagnostics: diags.Entries(),
	}

	o.mu.Lock()
	o.videoCount = len(videos)
	o.playlistCount = len(playlists)
	o.channelCount = len(channels)
	o.skippedEntries = len(result.Diagnostics)
	o.mu.Unlock()

	logger.Info().
		Int("videos", len(videos)).
		Int("playlists", len(playlists)).
		Int("channels", len(channels)).
		Int("skipped", len(result.Diagnostics)).
		Dur("elapsed", time.Since(start)).
		Msg("Aggregation run complete")

	return result
}

func resolve(inputs []string, diags *common.Diagnostics) []string {
	ids, failures := ident.ResolveAll(inputs)
	for _, f := range failures {
		diags.Record(common.StageResolve, f.Input, f.Err)
	}
	return ids
}

// fetchVideos fetches ids in batches and returns their entities in chunk order.
// IDs the API does not return are recorded as not found.
func (o *Orchestrator) fetchVideos(ctx context.Context, ids []string, stage common.Stage, diags *common.Diagnostics) []model.Entity {
	items, err := crawl.BatchAndFetch(ctx, ids, o.batchSize, o.concurrency,
		func(ctx context.Context, chunk []string) ([]youtube.VideoItem, error) {
			items, err := crawl.FetchAll(ctx, func(ctx context.Context, pageToken string) (*youtube.Page[youtube.VideoItem], error) {
				return o.client.ListVideos(ctx, client.ListRequest{
					IDs:        chunk,
					PageToken:  pageToken,
					MaxResults: int64(len(chunk)),
				})
			})
			if err != nil {
				diags.Record(stage, strings.Join(chunk, ","), err)
				return items, err
			}

			returned := make(map[string]struct{}, len(items))
			for _, item := range items {
				returned[item.ID] = struct{}{}
			}
			for _, id := range chunk {
				if _, ok := returned[id]; !ok {
					diags.Record(stage, id, fmt.Errorf("video %w", common.ErrNotFound))
				}
			}
			return items, nil
		})
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("stage", string(stage)).Msg("Some video batches failed")
	}

	entities := make([]model.Entity, 0, len(items))
	for _, item := range items {
		entities = append(entities, stats.VideoEntity(item))
	}
	return entities
}

func (o *Orchestrator) fetchPlaylists(ctx context.Context, ids []string, diags *common.Diagnostics) []model.Entity {
	slots := make([]*model.Entity, len(ids))

	var eg errgroup.Group
	eg.SetLimit(o.concurrency)
	for i, id := range ids {
		eg.Go(func() error {
			slots[i] = o.fetchPlaylist(ctx, id, diags)
			return nil
		})
	}
	_ = eg.Wait()

	return compact(slots)
}

func (o *Orchestrator) fetchPlaylist(ctx context.Context, id string, diags *common.Diagnostics) *model.Entity {
	logger := zerolog.Ctx(ctx).With().Str("playlist_id", id).Logger()

	members, err := crawl.FetchAll(ctx, func(ctx context.Context, pageToken string) (*youtube.Page[youtube.PlaylistItem], error) {
		return o.client.ListPlaylistItems(ctx, client.ListRequest{
			ParentID:   id,
			PageToken:  pageToken,
			MaxResults: crawl.MaxBatchSize,
		})
	})
	if err != nil {
		diags.Record(common.StagePlaylists, id, err)
		if len(members) == 0 {
			return nil
		}
		logger.Warn().Int("members", len(members)).Msg("Keeping partial playlist")
	}

	videoIDs := make([]string, 0, len(members))
	for _, m := range members {
		if m.VideoID != "" {
			videoIDs = append(videoIDs, m.VideoID)
		}
	}
	if len(videoIDs) == 0 {
		if err == nil {
			diags.Record(common.StagePlaylists, id, fmt.Errorf("playlist has no items: %w", common.ErrNotFound))
		}
		return nil
	}

	children := o.fetchVideos(ctx, videoIDs, common.StagePlaylists, diags)

	logger.Debug().Int("members", len(videoIDs)).Int("children", len(children)).Msg("Fetched playlist")
	return &model.Entity{
		ID:       id,
		URL:      ident.URLFor(id),
		Title:    o.playlistTitle(ctx, id, diags),
		Stats:    stats.Sum(children),
		Children: children,
	}
}

// playlistTitle returns the playlist's title, or "" when it cannot be fetched.
func (o *Orchestrator) playlistTitle(ctx context.Context, id string, diags *common.Diagnostics) string {
	page, err := o.client.ListPlaylists(ctx, client.ListRequest{IDs: []string{id}})
	if err != nil {
		diags.Record(common.StagePlaylists, id, fmt.Errorf("playlist metadata: %w", err))
		return ""
	}
	if page == nil || len(page.Items) == 0 {
		diags.Record(common.StagePlaylists, id, fmt.Errorf("playlist metadata: %w", common.ErrNotFound))
		return ""
	}
	return page.Items[0].Title
}

func (o *Orchestrator) fetchChannels(ctx context.Context, ids []string, diags *common.Diagnostics) []model.Entity {
	slots := make([]*model.Entity, len(ids))

	var eg errgroup.Group
	eg.SetLimit(o.concurrency)
	for i, id := range ids {
		eg.Go(func() error {
			page, err := o.client.ListChannels(ctx, client.ListRequest{IDs: []string{id}})
			if err != nil {
				diags.Record(common.StageChannels, id, err)
				return nil
			}
			if page == nil || len(page.Items) == 0 {
				diags.Record(common.StageChannels, id, fmt.Errorf("channel %w", common.ErrNotFound))
				return nil
			}
			entity := stats.ChannelEntity(page.Items[0])
			slots[i] = &entity
			return nil
		})
	}
	_ = eg.Wait()

	return compact(slots)
}

// compact drops skipped slots, keeping input order.
func compact(slots []*model.Entity) []model.Entity {
	out := make([]model.Entity, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (o *Orchestrator) begin(runID string) time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runID = runID
	o.isRunning = true
	o.startTime = time.Now()
	o.videoCount, o.playlistCount, o.channelCount, o.skippedEntries = 0, 0, 0, 0
	return o.startTime
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.isRunning = false
	o.mu.Unlock()
}

// GetStatus returns the current status of the orchestrator
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := map[string]interface{}{
		"run_id":     o.runID,
		"is_running": o.isRunning,
		"work_stats": map[string]interface{}{
			"videos":    o.videoCount,
			"playlists": o.playlistCount,
			"channels":  o.channelCount,
			"skipped":   o.skippedEntries,
		},
	}
	if !o.startTime.IsZero() {
		status["start_time"] = o.startTime
		status["uptime"] = time.Since(o.startTime).String()
	}
	return status
}
