// Package standalone runs one aggregation from command options to formatted output.
package standalone

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/researchaccelerator-hub/ytstats/client"
	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/config"
	"github.com/researchaccelerator-hub/ytstats/format"
	"github.com/researchaccelerator-hub/ytstats/model"
	"github.com/researchaccelerator-hub/ytstats/orchestrator"
	"github.com/researchaccelerator-hub/ytstats/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Request is everything the command collected for one run
type Request struct {
	// ConfigPath is a YAML file or http(s) URL; DefaultConfigFile is tried when empty
	ConfigPath string

	// Identifiers given on the command line, comma lists allowed
	Videos    []string
	Playlists []string
	Channels  []string

	// IDsFile lists video identifiers one per line
	IDsFile string

	Options *config.Options
}

// Runner wires the collaborators of a run. Zero fields fall back to the real implementations.
type Runner struct {
	NewClient client.Factory
	Storage   storage.StorageProvider
	Stdout    io.Writer
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// NewRunner returns a runner talking to the YouTube Data API and the local file system
func NewRunner() *Runner {
	return &Runner{
		NewClient: client.NewStatsClient,
		Storage:   storage.NewLocalStorageProvider(),
		Stdout:    os.Stdout,
		Now:       time.Now,
	}
}

func (r *Runner) withDefaults() *Runner {
	out := *r
	if out.NewClient == nil {
		out.NewClient = client.NewStatsClient
	}
	if out.Storage == nil {
		out.Storage = storage.NewLocalStorageProvider()
	}
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Logger == nil {
		out.Logger = &log.Logger
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// Run validates the request, loads and merges the identifiers, aggregates their statistics
// and writes the formatted result. Only precondition and output failures are returned as
// errors; entries skipped during aggregation are reported in the result's diagnostics.
func (r *Runner) Run(ctx context.Context, req Request) (orchestrator.Result, error) {
	r = r.withDefaults()
	logger := *r.Logger

	opts := req.Options
	if opts == nil {
		opts = config.DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return orchestrator.Result{}, err
	}

	cfg, err := r.loadConfig(ctx, req)
	if err != nil {
		return orchestrator.Result{}, err
	}
	if cfg.IsEmpty() {
		return orchestrator.Result{}, fmt.Errorf("%w: no videos, playlists or channels to fetch", common.ErrPrecondition)
	}

	c, err := r.NewClient(ctx, client.Settings{
		APIKey:            opts.Token,
		RequestTimeout:    opts.RequestTimeout,
		RequestsPerSecond: opts.RequestsPerSecond,
	})
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	defer func() {
		if err := c.Disconnect(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to disconnect YouTube client")
		}
	}()

	o := orchestrator.New(c,
		orchestrator.WithBatchSize(opts.BatchSize),
		orchestrator.WithConcurrency(opts.Concurrency),
		orchestrator.WithLogger(logger),
	)
	result := o.Run(ctx, cfg, opts.IncludeTotal)

	if n := len(result.Diagnostics); n > 0 {
		logger.Warn().Str("run_id", result.RunID).Int("skipped", n).Msg("Some entries were skipped")
	}

	out, err := format.Format(result.Stats, opts.Format)
	if err != nil {
		return result, err
	}

	if opts.Output == "" {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(r.Stdout, out); err != nil {
			return result, fmt.Errorf("failed to write stats: %w", err)
		}
		return result, nil
	}

	if err := storage.Save(r.Storage, opts.Output, out, opts.Format, opts.Append, r.Now()); err != nil {
		return result, err
	}
	logger.Info().Str("output", opts.Output).Bool("append", opts.Append).Msg("Stats saved")
	return result, nil
}

// loadConfig reads the config file and merges the command line identifiers into it.
func (r *Runner) loadConfig(ctx context.Context, req Request) (model.Config, error) {
	path := req.ConfigPath
	if path == "" {
		exists, err := r.Storage.FileExists(config.DefaultConfigFile)
		if err != nil {
			r.Logger.Debug().Err(err).Msg("Could not check for default config file")
		}
		if exists {
			path = config.DefaultConfigFile
		}
	}

	cfg, err := config.LoadStatsConfig(ctx, path)
	if err != nil {
		return model.Config{}, err
	}

	videos := common.SplitList(req.Videos)
	if req.IDsFile != "" {
		fileIDs, err := common.ReadIDsFromFile(req.IDsFile)
		if err != nil {
			return model.Config{}, fmt.Errorf("%w: failed to read IDs from file: %v", common.ErrPrecondition, err)
		}
		videos = append(videos, fileIDs...)
	}

	return cfg.Merge(videos, common.SplitList(req.Playlists), common.SplitList(req.Channels)), nil
}
