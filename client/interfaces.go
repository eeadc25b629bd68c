package client

import (
	"context"

	"github.com/researchaccelerator-hub/ytstats/model/youtube"
)

// ListRequest describes one page request against a YouTube list endpoint
type ListRequest struct {
	// IDs selects items by ID (videos, playlists, channels)
	IDs []string

	// ParentID selects children of a parent resource (playlist items of a playlist)
	ParentID string

	// PageToken continues a previous call; empty asks for the first page
	PageToken string

	// MaxResults is the page size, clamped to 1..50
	MaxResults int64
}

// StatsClient is the read-only surface of the YouTube Data API the aggregation pipeline uses
type StatsClient interface {
	// ListVideos returns snippet and statistics for the requested video IDs
	ListVideos(ctx context.Context, req ListRequest) (*youtube.Page[youtube.VideoItem], error)

	// ListPlaylistItems returns the member videos of the playlist in ParentID
	ListPlaylistItems(ctx context.Context, req ListRequest) (*youtube.Page[youtube.PlaylistItem], error)

	// ListPlaylists returns metadata for the requested playlist IDs
	ListPlaylists(ctx context.Context, req ListRequest) (*youtube.Page[youtube.Playlist], error)

	// ListChannels returns snippet and statistics for the requested channel IDs
	ListChannels(ctx context.Context, req ListRequest) (*youtube.Page[youtube.ChannelItem], error)
}

// Client is a StatsClient with an explicit connection lifecycle
type Client interface {
	StatsClient

	// Connect establishes a connection to the service
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the service
	Disconnect(ctx context.Context) error
}
