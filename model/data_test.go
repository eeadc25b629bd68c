package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatRecord_GetReturnsZeroOutsideShape(t *testing.T) {
	ch := StatRecord{Shape: ShapeChannel, Views: 100, Subscribers: 7, Videos: 3, Likes: 99}

	assert.Equal(t, int64(100), ch.Get(FieldViews))
	assert.Equal(t, int64(7), ch.Get(FieldSubscribers))
	assert.Equal(t, int64(0), ch.Get(FieldLikes), "likes is not part of the channel shape")
}

func TestStatRecord_AddIgnoresFieldsOutsideShape(t *testing.T) {
	rec := NewStatRecord(ShapeEngagement)
	rec.Add(FieldViews, 5)
	rec.Add(FieldSubscribers, 10)

	assert.Equal(t, int64(5), rec.Views)
	assert.Equal(t, int64(0), rec.Subscribers)
}

func TestNewStatRecord_DefaultsToEngagement(t *testing.T) {
	assert.Equal(t, ShapeEngagement, NewStatRecord("").Shape)
}

func TestStatRecord_MarshalJSONEmitsShapeFieldsInOrder(t *testing.T) {
	video := StatRecord{Shape: ShapeEngagement, Views: 10, Likes: 2}
	data, err := json.Marshal(video)
	require.NoError(t, err)
	assert.Equal(t, `{"views":10,"likes":2,"dislikes":0,"favorites":0,"comments":0}`, string(data))

	channel := StatRecord{Shape: ShapeChannel, Views: 1, Subscribers: 2, Videos: 3}
	data, err = json.Marshal(channel)
	require.NoError(t, err)
	assert.Equal(t, `{"views":1,"subscribers":2,"videos":3}`, string(data))
}

func TestEntity_MarshalJSONOmitsEmptyChildren(t *testing.T) {
	e := Entity{ID: "abc123", URL: "https://youtu.be/abc123", Title: "t", Stats: NewStatRecord(ShapeEngagement)}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "children")
}

func TestConfig_MergeDoesNotMutateReceiver(t *testing.T) {
	base := Config{Videos: make([]string, 1, 4), Playlists: []string{"PLa"}}
	base.Videos[0] = "v1"

	merged := base.Merge([]string{"v2"}, nil, []string{"UCx"})

	assert.Equal(t, []string{"v1", "v2"}, merged.Videos)
	assert.Equal(t, []string{"PLa"}, merged.Playlists)
	assert.Equal(t, []string{"UCx"}, merged.Channels)
	assert.Len(t, base.Videos, 1)
	assert.Empty(t, base.Channels)
}

func TestConfig_IsEmpty(t *testing.T) {
	assert.True(t, Config{}.IsEmpty())
	assert.False(t, Config{Channels: []string{"UCx"}}.IsEmpty())
}
