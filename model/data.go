// Package model holds the aggregated statistics data model shared by the pipeline and formatters.
package model

import "encoding/json"

// Kind identifies the type of entity an identifier points at
type Kind string

const (
	KindVideo    Kind = "video"
	KindPlaylist Kind = "playlist"
	KindChannel  Kind = "channel"
)

// Shape distinguishes the two StatRecord layouts
type Shape string

const (
	// ShapeEngagement is used for videos, playlists and totals
	ShapeEngagement Shape = "engagement"

	// ShapeChannel is used for channels
	ShapeChannel Shape = "channel"
)

// Field names a single counter of a StatRecord
type Field string

const (
	FieldViews       Field = "views"
	FieldLikes       Field = "likes"
	FieldDislikes    Field = "dislikes"
	FieldFavorites   Field = "favorites"
	FieldComments    Field = "comments"
	FieldSubscribers Field = "subscribers"
	FieldVideos      Field = "videos"
)

// EngagementFields is the declared field order of the engagement shape
var EngagementFields = []Field{FieldViews, FieldLikes, FieldDislikes, FieldFavorites, FieldComments}

// ChannelFields is the declared field order of the channel shape
var ChannelFields = []Field{FieldViews, FieldSubscribers, FieldVideos}

// StatRecord is a non-negative numeric snapshot of an entity's statistics.
// Only the fields belonging to Shape are meaningful; the others stay zero.
type StatRecord struct {
	Shape       Shape
	Views       int64
	Likes       int64
	Dislikes    int64
	Favorites   int64
	Comments    int64
	Subscribers int64
	Videos      int64
}

// NewStatRecord returns an all-zero record of the given shape
func NewStatRecord(shape Shape) StatRecord {
	if shape == "" {
		shape = ShapeEngagement
	}
	return StatRecord{Shape: shape}
}

// Fields returns the ordered fields carried by the record's shape
func (s StatRecord) Fields() []Field {
	if s.Shape == ShapeChannel {
		return ChannelFields
	}
	return EngagementFields
}

// Has reports whether field belongs to the record's shape
func (s StatRecord) Has(field Field) bool {
	for _, f := range s.Fields() {
		if f == field {
			return true
		}
	}
	return false
}

// Get returns the value of field, or 0 when the shape does not carry it
func (s StatRecord) Get(field Field) int64 {
	if !s.Has(field) {
		return 0
	}
	switch field {
	case FieldViews:
		return s.Views
	case FieldLikes:
		return s.Likes
	case FieldDislikes:
		return s.Dislikes
	case FieldFavorites:
		return s.Favorites
	case FieldComments:
		return s.Comments
	case FieldSubscribers:
		return s.Subscribers
	case FieldVideos:
		return s.Videos
	}
	return 0
}

// Add increments field by delta. Fields outside the shape are ignored.
func (s *StatRecord) Add(field Field, delta int64) {
	if !s.Has(field) {
		return
	}
	switch field {
	case FieldViews:
		s.Views += delta
	case FieldLikes:
		s.Likes += delta
	case FieldDislikes:
		s.Dislikes += delta
	case FieldFavorites:
		s.Favorites += delta
	case FieldComments:
		s.Comments += delta
	case FieldSubscribers:
		s.Subscribers += delta
	case FieldVideos:
		s.Videos += delta
	}
}

type engagementStats struct {
	Views     int64 `json:"views" yaml:"views"`
	Likes     int64 `json:"likes" yaml:"likes"`
	Dislikes  int64 `json:"dislikes" yaml:"dislikes"`
	Favorites int64 `json:"favorites" yaml:"favorites"`
	Comments  int64 `json:"comments" yaml:"comments"`
}

type channelStats struct {
	Views       int64 `json:"views" yaml:"views"`
	Subscribers int64 `json:"subscribers" yaml:"subscribers"`
	Videos      int64 `json:"videos" yaml:"videos"`
}

func (s StatRecord) encoded() interface{} {
	if s.Shape == ShapeChannel {
		return channelStats{Views: s.Views, Subscribers: s.Subscribers, Videos: s.Videos}
	}
	return engagementStats{
		Views:     s.Views,
		Likes:     s.Likes,
		Dislikes:  s.Dislikes,
		Favorites: s.Favorites,
		Comments:  s.Comments,
	}
}

// MarshalJSON emits only the fields of the record's shape, in declared order
func (s StatRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.encoded())
}

// MarshalYAML emits only the fields of the record's shape, in declared order
func (s StatRecord) MarshalYAML() (interface{}, error) {
	return s.encoded(), nil
}

// Entity is a video, playlist or channel with its normalized statistics
type Entity struct {
	ID       string     `json:"id" yaml:"id"`
	URL      string     `json:"url" yaml:"url"`
	Title    string     `json:"title" yaml:"title"`
	Stats    StatRecord `json:"stats" yaml:"stats"`
	Children []Entity   `json:"children,omitempty" yaml:"children,omitempty"` // playlist member videos
}

// Config lists the identifiers (IDs or URLs) to aggregate
type Config struct {
	Videos    []string `json:"videos" yaml:"videos"`
	Playlists []string `json:"playlists" yaml:"playlists"`
	Channels  []string `json:"channels" yaml:"channels"`
}

// Merge returns a copy of c with the extra identifiers appended to each list
func (c Config) Merge(videos, playlists, channels []string) Config {
	return Config{
		Videos:    appendCopy(c.Videos, videos),
		Playlists: appendCopy(c.Playlists, playlists),
		Channels:  appendCopy(c.Channels, channels),
	}
}

// IsEmpty reports whether no identifier is configured at all
func (c Config) IsEmpty() bool {
	return len(c.Videos) == 0 && len(c.Playlists) == 0 && len(c.Channels) == 0
}

func appendCopy(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// AggregatedResult is the terminal output of an aggregation run
type AggregatedResult struct {
	Videos    []Entity    `json:"videos" yaml:"videos"`
	Playlists []Entity    `json:"playlists" yaml:"playlists"`
	Channels  []Entity    `json:"channels" yaml:"channels"`
	Total     *StatRecord `json:"total,omitempty" yaml:"total,omitempty"`
}
