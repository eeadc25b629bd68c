// Package client talks to the YouTube Data API v3.
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/model/youtube"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

const (
	// DefaultRequestTimeout bounds a single API call
	DefaultRequestTimeout = 30 * time.Second

	maxPageSize = 50
)

// Field selectors keep responses down to what the pipeline reads
const (
	videoFields        = googleapi.Field("nextPageToken,items(id,snippet/title,statistics)")
	playlistItemFields = googleapi.Field("nextPageToken,items(snippet(title,resourceId/videoId),contentDetails/videoId)")
	playlistFields     = googleapi.Field("nextPageToken,items(id,snippet/title)")
	channelFields      = googleapi.Field("nextPageToken,items(id,snippet/title,statistics(viewCount,subscriberCount,videoCount))")
)

// ErrNotConnected is returned when a list call is made before Connect
var ErrNotConnected = errors.New("YouTube client not connected")

// Option configures a YouTubeDataClient
type Option func(*YouTubeDataClient)

// WithEndpoint overrides the API base URL (used by tests and proxies)
func WithEndpoint(endpoint string) Option {
	return func(c *YouTubeDataClient) {
		c.endpoint = endpoint
	}
}

// WithRequestTimeout sets the per-call timeout. Non-positive values keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *YouTubeDataClient) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithRequestsPerSecond paces outgoing calls. Zero or less disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *YouTubeDataClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// YouTubeDataClient implements Client on top of the YouTube Data API
type YouTubeDataClient struct {
	service        *ytapi.Service
	apiKey         string
	endpoint       string
	requestTimeout time.Duration
	limiter        *rate.Limiter
}

// NewYouTubeDataClient creates a new YouTube data client. The API key is the opaque credential.
func NewYouTubeDataClient(apiKey string, opts ...Option) (*YouTubeDataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: YouTube API key is required", common.ErrPrecondition)
	}

	c := &YouTubeDataClient{
		apiKey:         apiKey,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect establishes a connection to the YouTube API
func (c *YouTubeDataClient) Connect(ctx context.Context) error {
	log.Debug().Str("endpoint", c.endpoint).Msg("Connecting to YouTube API")

	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	log.Debug().Msg("Connected to YouTube API")
	return nil
}

// Disconnect closes the connection to the YouTube API
func (c *YouTubeDataClient) Disconnect(ctx context.Context) error {
	// No explicit disconnect needed for the YouTube API client
	c.service = nil
	return nil
}

// ListVideos calls videos.list for up to 50 IDs
func (c *YouTubeDataClient) ListVideos(ctx context.Context, req ListRequest) (*youtube.Page[youtube.VideoItem], error) {
	const op = "videos.list"
	if len(req.IDs) == 0 {
		return &youtube.Page[youtube.VideoItem]{}, nil
	}
	ctx, cancel, err := c.begin(ctx, op, req.IDs)
	if err != nil {
		return nil, err
	}
	defer cancel()

	call := c.service.Videos.List([]string{"snippet", "statistics"}).
		Id(req.IDs...).
		Fields(videoFields).
		Context(ctx)
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(op, strings.Join(req.IDs, ","), err)
	}

	page := &youtube.Page[youtube.VideoItem]{
		Items:         make([]youtube.VideoItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, v := range resp.Items {
		if v == nil {
			continue
		}
		item := youtube.VideoItem{ID: v.Id}
		if v.Snippet != nil {
			item.Title = v.Snippet.Title
		}
		if s := v.Statistics; s != nil {
			item.Statistics = youtube.EngagementStatistics{
				ViewCount:     formatCount(s.ViewCount),
				LikeCount:     formatCount(s.LikeCount),
				DislikeCount:  formatCount(s.DislikeCount),
				FavoriteCount: formatCount(s.FavoriteCount),
				CommentCount:  formatCount(s.CommentCount),
			}
		}
		page.Items = append(page.Items, item)
	}

	log.Debug().Int("requested", len(req.IDs)).Int("returned", len(page.Items)).Msg("Fetched video statistics")
	return page, nil
}

// ListPlaylistItems calls playlistItems.list for the playlist in req.ParentID
func (c *YouTubeDataClient) ListPlaylistItems(ctx context.Context, req ListRequest) (*youtube.Page[youtube.PlaylistItem], error) {
	const op = "playlistItems.list"
	if req.ParentID == "" {
		return nil, &common.ProviderError{Operation: op, Err: errors.New("playlist ID is required")}
	}
	ctx, cancel, err := c.begin(ctx, op, []string{req.ParentID})
	if err != nil {
		return nil, err
	}
	defer cancel()

	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(req.ParentID).
		MaxResults(pageSize(req.MaxResults)).
		Fields(playlistItemFields).
		Context(ctx)
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(op, req.ParentID, err)
	}

	page := &youtube.Page[youtube.PlaylistItem]{
		Items:         make([]youtube.PlaylistItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, it := range resp.Items {
		if it == nil {
			continue
		}
		var item youtube.PlaylistItem
		if it.Snippet != nil {
			item.Title = it.Snippet.Title
			if it.Snippet.ResourceId != nil {
				item.VideoID = it.Snippet.ResourceId.VideoId
			}
		}
		if item.VideoID == "" && it.ContentDetails != nil {
			item.VideoID = it.ContentDetails.VideoId
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// ListPlaylists calls playlists.list for up to 50 IDs
func (c *YouTubeDataClient) ListPlaylists(ctx context.Context, req ListRequest) (*youtube.Page[youtube.Playlist], error) {
	const op = "playlists.list"
	if len(req.IDs) == 0 {
		return &youtube.Page[youtube.Playlist]{}, nil
	}
	ctx, cancel, err := c.begin(ctx, op, req.IDs)
	if err != nil {
		return nil, err
	}
	defer cancel()

	call := c.service.Playlists.List([]string{"snippet"}).
		Id(req.IDs...).
		Fields(playlistFields).
		Context(ctx)
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(op, strings.Join(req.IDs, ","), err)
	}

	page := &youtube.Page[youtube.Playlist]{
		Items:         make([]youtube.Playlist, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, p := range resp.Items {
		if p == nil {
			continue
		}
		item := youtube.Playlist{ID: p.Id}
		if p.Snippet != nil {
			item.Title = p.Snippet.Title
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// ListChannels calls channels.list for up to 50 IDs
func (c *YouTubeDataClient) ListChannels(ctx context.Context, req ListRequest) (*youtube.Page[youtube.ChannelItem], error) {
	const op = "channels.list"
	if len(req.IDs) == 0 {
		return &youtube.Page[youtube.ChannelItem]{}, nil
	}
	ctx, cancel, err := c.begin(ctx, op, req.IDs)
	if err != nil {
		return nil, err
	}
	defer cancel()

	call := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(req.IDs...).
		Fields(channelFields).
		Context(ctx)
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(op, strings.Join(req.IDs, ","), err)
	}

	page := &youtube.Page[youtube.ChannelItem]{
		Items:         make([]youtube.ChannelItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, ch := range resp.Items {
		if ch == nil {
			continue
		}
		item := youtube.ChannelItem{ID: ch.Id}
		if ch.Snippet != nil {
			item.Title = ch.Snippet.Title
		}
		if s := ch.Statistics; s != nil {
			item.Statistics = youtube.ChannelStatistics{
				ViewCount:       formatCount(s.ViewCount),
				SubscriberCount: formatCount(s.SubscriberCount),
				VideoCount:      formatCount(s.VideoCount),
			}
		}
		page.Items = append(page.Items, item)
	}

	log.Debug().Strs("channel_ids", req.IDs).Int("returned", len(page.Items)).Msg("Fetched channel statistics")
	return page, nil
}

// begin checks the connection, waits for the pacer and applies the per-call timeout.
func (c *YouTubeDataClient) begin(ctx context.Context, op string, ids []string) (context.Context, context.CancelFunc, error) {
	if c.service == nil {
		return nil, nil, ErrNotConnected
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, wrapError(op, strings.Join(ids, ","), err)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	return ctx, cancel, nil
}

func wrapError(op, identifier string, err error) error {
	log.Debug().Err(err).Str("operation", op).Str("identifier", identifier).Msg("YouTube API call failed")
	return &common.ProviderError{Operation: op, Identifier: identifier, Err: err}
}

func pageSize(n int64) int64 {
	if n <= 0 || n > maxPageSize {
		return maxPageSize
	}
	return n
}

func formatCount(n uint64) string {
	return strconv.FormatUint(n, 10)
}
