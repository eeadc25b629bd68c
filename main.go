// Command ys prints view and engagement statistics for YouTube videos, playlists and channels.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/researchaccelerator-hub/ytstats/config"
	"github.com/researchaccelerator-hub/ytstats/standalone"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(standalone.NewRunner()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setupLogging sends human readable logs to w at the given level.
func setupLogging(w io.Writer, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

// newRootCmd creates the ys command. runner performs the actual work.
func newRootCmd(runner *standalone.Runner) *cobra.Command {
	opts := config.DefaultOptions()
	var (
		videos    []string
		playlists []string
		channels  []string
		idsFile   string
	)

	v := viper.New()

	cmd := &cobra.Command{
		Use:   "ys [config_path_or_URL]",
		Short: "Get statistics for YouTube videos, playlists and channels",
		Long: "ys fetches view, like and comment counts for YouTube videos and playlists and\n" +
			"subscriber counts for channels, optionally adds them up, and prints or saves them.\n\n" +
			"Identifiers come from a YAML config (" + config.DefaultConfigFile + " by default) and from flags.",
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Token = v.GetString("token")
			setupLogging(cmd.ErrOrStderr(), opts.Level())

			logger := log.Logger
			runner.Logger = &logger
			runner.Stdout = cmd.OutOrStdout()

			req := standalone.Request{
				Videos:    videos,
				Playlists: playlists,
				Channels:  channels,
				IDsFile:   idsFile,
				Options:   opts,
			}
			if len(args) > 0 {
				req.ConfigPath = args[0]
			}

			_, err := runner.Run(cmd.Context(), req)
			if err != nil {
				log.Error().Err(err).Msg("Run failed")
			}
			return err
		},
	}
	cmd.SetVersionTemplate("ys version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringSliceVarP(&videos, "ids", "i", nil, "Comma separated list of video IDs or URLs")
	flags.StringVar(&idsFile, "ids-file", "", "File with one video ID or URL per line")
	flags.StringSliceVarP(&playlists, "playlist", "p", nil, "Playlist ID or URL (repeatable)")
	flags.StringSliceVarP(&channels, "channel", "c", nil, "Channel ID or URL (repeatable)")
	flags.StringP("token", "t", "", "YouTube Data API token (default $YT_API_TOKEN)")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write result to output file")
	flags.BoolVarP(&opts.Append, "append", "a", false, "Append to output file (requires -o)")
	flags.StringVarP(&opts.Format, "format", "f", opts.Format, "Output format (basic, txt, csv, json, yml)")
	flags.BoolVar(&opts.IncludeTotal, "total", false, "Include the total of all entries")
	flags.IntVar(&opts.BatchSize, "batch-size", opts.BatchSize, "IDs per API call (1-50)")
	flags.IntVar(&opts.Concurrency, "concurrency", opts.Concurrency, "Maximum concurrent API calls per stage")
	flags.DurationVar(&opts.RequestTimeout, "timeout", opts.RequestTimeout, "Timeout for a single API call")
	flags.Float64Var(&opts.RequestsPerSecond, "rps", opts.RequestsPerSecond, "Maximum API calls per second (0 = unlimited)")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")

	_ = v.BindPFlag("token", flags.Lookup("token"))
	_ = v.BindEnv("token", "YT_API_TOKEN")

	return cmd
}
