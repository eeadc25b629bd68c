// Package ident resolves user supplied YouTube identifiers (bare IDs or URLs) into canonical IDs
// and derives browse URLs from them.
package ident

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/model"
)

const (
	channelIDPrefix  = "UC"
	playlistIDPrefix = "PL"
)

// urlPattern captures, in order: short video ID, channel ID, playlist list= parameter, watch v= parameter.
var urlPattern = regexp.MustCompile(`(?i)(?:youtu\.be/([^?&#/\s]+))|(?:youtube\.com/(?:(?:channel/([^?&#/\s]+))|(?:playlist\?(?:[^#\s]*?&)?list=([^?&#\s]+))|(?:watch\?(?:[^#\s]*?&)?v=([^?&#\s]+))))`)

// IsURL reports whether s should be parsed as a URL rather than taken as a canonical ID.
func IsURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "http")
}

// Resolve returns the canonical ID for idOrURL. Inputs that are not URLs are returned unchanged.
func Resolve(idOrURL string) (string, error) {
	if !IsURL(idOrURL) {
		return idOrURL, nil
	}

	match := urlPattern.FindStringSubmatch(idOrURL)
	if match == nil {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidIdentifier, idOrURL)
	}
	for _, group := range match[1:] {
		if group != "" {
			return group, nil
		}
	}
	return "", fmt.Errorf("%w: %s", common.ErrInvalidIdentifier, idOrURL)
}

// ResolveAll resolves every input, keeping input order. Entries that fail, including blank
// ones, are left out of ids and reported in failures; they never abort the rest.
func ResolveAll(inputs []string) (ids []string, failures []Failure) {
	ids = make([]string, 0, len(inputs))
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			failures = append(failures, Failure{Input: in, Err: fmt.Errorf("%w: empty value", common.ErrInvalidIdentifier)})
			continue
		}
		id, err := Resolve(in)
		if err != nil {
			failures = append(failures, Failure{Input: in, Err: err})
			continue
		}
		ids = append(ids, id)
	}
	return ids, failures
}

// Failure is an input that could not be resolved
type Failure struct {
	Input string
	Err   error
}

// Classify returns the kind of entity an ID points at, judged by its prefix.
func Classify(id string) model.Kind {
	switch {
	case strings.HasPrefix(id, channelIDPrefix):
		return model.KindChannel
	case strings.HasPrefix(id, playlistIDPrefix):
		return model.KindPlaylist
	default:
		return model.KindVideo
	}
}

// URLFor returns the canonical browse URL for id. It never touches the network.
func URLFor(id string) string {
	switch Classify(id) {
	case model.KindChannel:
		return "https://www.youtube.com/channel/" + id
	case model.KindPlaylist:
		return "https://www.youtube.com/playlist?list=" + id
	default:
		return "https://youtu.be/" + id
	}
}
