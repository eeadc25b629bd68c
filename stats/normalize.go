// Package stats converts raw API statistics into StatRecords and rolls them up.
package stats

import (
	"strconv"
	"strings"

	"github.com/researchaccelerator-hub/ytstats/ident"
	"github.com/researchaccelerator-hub/ytstats/model"
	"github.com/researchaccelerator-hub/ytstats/model/youtube"
)

// ParseCount converts a numeric string counter. Empty, malformed or negative values yield 0.
func ParseCount(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NormalizeEngagement maps video statistics to an engagement-shape record.
func NormalizeEngagement(raw youtube.EngagementStatistics) model.StatRecord {
	return model.StatRecord{
		Shape:     model.ShapeEngagement,
		Views:     ParseCount(raw.ViewCount),
		Likes:     ParseCount(raw.LikeCount),
		Dislikes:  ParseCount(raw.DislikeCount),
		Favorites: ParseCount(raw.FavoriteCount),
		Comments:  ParseCount(raw.CommentCount),
	}
}

// NormalizeChannel maps channel statistics to a channel-shape record.
func NormalizeChannel(raw youtube.ChannelStatistics) model.StatRecord {
	return model.StatRecord{
		Shape:       model.ShapeChannel,
		Views:       ParseCount(raw.ViewCount),
		Subscribers: ParseCount(raw.SubscriberCount),
		Videos:      ParseCount(raw.VideoCount),
	}
}

// VideoEntity builds a childless entity from a videos.list item.
func VideoEntity(item youtube.VideoItem) model.Entity {
	return model.Entity{
		ID:    item.ID,
		URL:   ident.URLFor(item.ID),
		Title: item.Title,
		Stats: NormalizeEngagement(item.Statistics),
	}
}

// ChannelEntity builds a childless entity from a channels.list item.
func ChannelEntity(item youtube.ChannelItem) model.Entity {
	return model.Entity{
		ID:    item.ID,
		URL:   ident.URLFor(item.ID),
		Title: item.Title,
		Stats: NormalizeChannel(item.Statistics),
	}
}
