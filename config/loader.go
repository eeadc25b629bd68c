package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/ident"
	"github.com/researchaccelerator-hub/ytstats/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LoadStatsConfig reads the identifier lists from a YAML file or an http(s) URL.
// An empty pathOrURL yields an empty config. Keys other than videos, playlists and channels
// are ignored, as are those keys when they do not hold a list.
func LoadStatsConfig(ctx context.Context, pathOrURL string) (model.Config, error) {
	cfg := model.Config{Videos: []string{}, Playlists: []string{}, Channels: []string{}}
	if pathOrURL == "" {
		return cfg, nil
	}

	var (
		raw []byte
		err error
	)
	if ident.IsURL(pathOrURL) {
		raw, err = common.FetchURL(ctx, pathOrURL)
	} else {
		raw, err = os.ReadFile(pathOrURL)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: error while loading config %s: %v", common.ErrPrecondition, pathOrURL, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		log.Debug().Str("config", pathOrURL).Msg("Config is empty")
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return cfg, fmt.Errorf("%w: error while parsing config %s: %v", common.ErrPrecondition, pathOrURL, err)
	}

	cfg.Videos = stringList(v.Get("videos"))
	cfg.Playlists = stringList(v.Get("playlists"))
	cfg.Channels = stringList(v.Get("channels"))

	log.Debug().
		Str("config", pathOrURL).
		Int("videos", len(cfg.Videos)).
		Int("playlists", len(cfg.Playlists)).
		Int("channels", len(cfg.Channels)).
		Msg("Loaded stats config")
	return cfg, nil
}

// stringList keeps value only when it is a YAML sequence
func stringList(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}
