// Package config holds the run options and loads the stats config file
package config

import (
	"fmt"
	"time"

	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/crawl"
	"github.com/researchaccelerator-hub/ytstats/format"
	"github.com/rs/zerolog"
)

// DefaultConfigFile is read when no config path is given and it exists in the working directory
const DefaultConfigFile = "ytstats.yml"

// Options holds everything a run needs besides the identifiers themselves
type Options struct {
	Token        string `yaml:"-" json:"-"`                                     // YouTube Data API key
	Format       string `yaml:"format" json:"format"`                           // Output format name
	Output       string `yaml:"output" json:"output,omitempty"`                 // Output file, stdout when empty
	Append       bool   `yaml:"append" json:"append"`                           // Append to Output instead of replacing it
	IncludeTotal bool   `yaml:"include_total" json:"include_total"`             // Compute the grand total

	// Fetch tuning
	BatchSize         int           `yaml:"batch_size" json:"batch_size"`                   // IDs per list call
	Concurrency       int           `yaml:"concurrency" json:"concurrency"`                 // Max in-flight requests per stage
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`         // Timeout for a single API call
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"` // 0 disables pacing

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		Format:            format.Basic,
		BatchSize:         crawl.MaxBatchSize,
		Concurrency:       8,
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 0,
		LogLevel:          "info",
	}
}

// Validate checks if the options are usable. Every failure wraps common.ErrPrecondition.
func (o *Options) Validate() error {
	if o.Token == "" {
		return fmt.Errorf("%w: YouTube API token is required (--token or YT_API_TOKEN)", common.ErrPrecondition)
	}

	if !format.Supported(o.Format) {
		return fmt.Errorf("%w: invalid format '%s', must be one of: %v", common.ErrPrecondition, o.Format, format.Names())
	}

	if o.Append && o.Output == "" {
		return fmt.Errorf("%w: append requires an output file", common.ErrPrecondition)
	}

	if o.Append && o.Format == format.JSON {
		return fmt.Errorf("%w: appending to JSON files is not supported", common.ErrPrecondition)
	}

	if o.BatchSize < 1 || o.BatchSize > crawl.MaxBatchSize {
		return fmt.Errorf("%w: batch_size must be between 1 and %d", common.ErrPrecondition, crawl.MaxBatchSize)
	}

	if o.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", common.ErrPrecondition)
	}

	if o.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", common.ErrPrecondition)
	}

	if o.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second cannot be negative", common.ErrPrecondition)
	}

	if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("%w: invalid log level '%s'", common.ErrPrecondition, o.LogLevel)
	}

	return nil
}

// Level returns the parsed log level, info when it cannot be parsed
func (o *Options) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil || o.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
