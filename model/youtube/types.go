// Package youtube contains the raw YouTube Data API response types the pipeline converts from.
// Counts keep their wire representation: numeric strings, empty when the API omitted them.
package youtube

// Page is one page of a list call
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// EngagementStatistics mirrors the statistics part of a videos.list item
type EngagementStatistics struct {
	ViewCount     string
	LikeCount     string
	DislikeCount  string
	FavoriteCount string
	CommentCount  string
}

// ChannelStatistics mirrors the statistics part of a channels.list item
type ChannelStatistics struct {
	ViewCount       string
	SubscriberCount string
	VideoCount      string
}

// VideoItem is a videos.list item
type VideoItem struct {
	ID         string
	Title      string
	Statistics EngagementStatistics
}

// PlaylistItem is a playlistItems.list item
type PlaylistItem struct {
	VideoID string
	Title   string
}

// Playlist is a playlists.list item
type Playlist struct {
	ID    string
	Title string
}

// ChannelItem is a channels.list item
type ChannelItem struct {
	ID         string
	Title      string
	Statistics ChannelStatistics
}
