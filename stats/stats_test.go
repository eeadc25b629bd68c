package stats

import (
	"testing"

	"github.com/researchaccelerator-hub/ytstats/model"
	"github.com/researchaccelerator-hub/ytstats/model/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"10", 10},
		{" 42 ", 42},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
		{"1.5", 0},
		{"9223372036854775807", 9223372036854775807},
		{"99999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.raw))
		})
	}
}

func TestNormalizeEngagement_MissingFieldsDefaultToZero(t *testing.T) {
	rec := NormalizeEngagement(youtube.EngagementStatistics{ViewCount: "10", LikeCount: "2"})

	assert.Equal(t, model.StatRecord{Shape: model.ShapeEngagement, Views: 10, Likes: 2}, rec)
}

func TestNormalizeChannel(t *testing.T) {
	rec := NormalizeChannel(youtube.ChannelStatistics{ViewCount: "100", SubscriberCount: "oops", VideoCount: "3"})

	assert.Equal(t, model.StatRecord{Shape: model.ShapeChannel, Views: 100, Videos: 3}, rec)
}

func TestVideoEntity(t *testing.T) {
	e := VideoEntity(youtube.VideoItem{
		ID:         "abc123",
		Title:      "Provider title",
		Statistics: youtube.EngagementStatistics{ViewCount: "10", LikeCount: "2"},
	})

	assert.Equal(t, "abc123", e.ID)
	assert.Equal(t, "https://youtu.be/abc123", e.URL)
	assert.Equal(t, "Provider title", e.Title)
	assert.Equal(t, int64(10), e.Stats.Views)
	assert.Equal(t, int64(2), e.Stats.Likes)
	assert.Equal(t, int64(0), e.Stats.Dislikes)
	assert.Empty(t, e.Children)
}

func TestChannelEntity(t *testing.T) {
	e := ChannelEntity(youtube.ChannelItem{ID: "UCabc", Title: "Chan", Statistics: youtube.ChannelStatistics{SubscriberCount: "5"}})

	assert.Equal(t, "https://www.youtube.com/channel/UCabc", e.URL)
	assert.Equal(t, model.ShapeChannel, e.Stats.Shape)
	assert.Equal(t, int64(5), e.Stats.Subscribers)
}

func video(views, likes int64) model.Entity {
	return model.Entity{Stats: model.StatRecord{Shape: model.ShapeEngagement, Views: views, Likes: likes}}
}

func channel(views, subs int64) model.Entity {
	return model.Entity{Stats: model.StatRecord{Shape: model.ShapeChannel, Views: views, Subscribers: subs}}
}

func TestSum_EmptyIsZero(t *testing.T) {
	assert.Equal(t, model.NewStatRecord(model.ShapeEngagement), Sum(nil))
	assert.Equal(t, model.NewStatRecord(model.ShapeEngagement), Sum([]model.Entity{}))
}

func TestSum_PlaylistOfTwoVideos(t *testing.T) {
	total := Sum([]model.Entity{video(10, 1), video(20, 2)})

	assert.Equal(t, int64(30), total.Views)
	assert.Equal(t, int64(3), total.Likes)
}

func TestSum_KeepsChannelShape(t *testing.T) {
	total := Sum([]model.Entity{channel(100, 1), channel(50, 2)})

	assert.Equal(t, model.ShapeChannel, total.Shape)
	assert.Equal(t, int64(150), total.Views)
	assert.Equal(t, int64(3), total.Subscribers)
}

func TestSum_MissingFieldCountsAsZero(t *testing.T) {
	total := Sum([]model.Entity{video(5, 5), channel(100, 9)})

	assert.Equal(t, model.ShapeEngagement, total.Shape)
	assert.Equal(t, int64(105), total.Views)
	assert.Equal(t, int64(5), total.Likes)
	assert.Equal(t, int64(0), total.Subscribers)
}

func TestSum_IsCommutativeAndAssociative(t *testing.T) {
	a, b, c := video(1, 2), video(30, 40), video(500, 600)

	assert.Equal(t, Sum([]model.Entity{a, b, c}), Sum([]model.Entity{c, a, b}))

	left := SumRecords(model.ShapeEngagement, Sum([]model.Entity{a, b}), c.Stats)
	right := SumRecords(model.ShapeEngagement, a.Stats, Sum([]model.Entity{b, c}))
	assert.Equal(t, left, right)
}

func TestRollupConfig_OmittedWhenNotRequested(t *testing.T) {
	assert.Nil(t, RollupConfig([]model.Entity{video(1, 1)}, nil, nil, false))
}

func TestRollupConfig_VideoAndChannel(t *testing.T) {
	total := RollupConfig([]model.Entity{video(5, 5)}, nil, []model.Entity{channel(100, 7)}, true)

	require.NotNil(t, total)
	assert.Equal(t, model.ShapeEngagement, total.Shape)
	assert.Equal(t, int64(105), total.Views)
	assert.Equal(t, int64(5), total.Likes)
}

func TestRollupConfig_EqualsSumOfGroupSums(t *testing.T) {
	videos := []model.Entity{video(1, 1), video(2, 2)}
	playlists := []model.Entity{video(30, 3)}
	channels := []model.Entity{channel(400, 4)}

	total := RollupConfig(videos, playlists, channels, true)

	require.NotNil(t, total)
	for _, f := range model.EngagementFields {
		want := Sum(videos).Get(f) + Sum(playlists).Get(f) + Sum(channels).Get(f)
		assert.Equal(t, want, total.Get(f), "field %s", f)
	}
}

func TestRollupConfig_EmptyGroups(t *testing.T) {
	total := RollupConfig(nil, nil, nil, true)

	require.NotNil(t, total)
	assert.Equal(t, model.NewStatRecord(model.ShapeEngagement), *total)
}
