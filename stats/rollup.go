package stats

import "github.com/researchaccelerator-hub/ytstats/model"

// Sum adds up the stats of entities field by field. The result takes the shape of the first
// entity (engagement when empty); fields an entity does not carry count as 0.
// Callers must not mix shapes within one call.
func Sum(entities []model.Entity) model.StatRecord {
	shape := model.ShapeEngagement
	if len(entities) > 0 {
		shape = entities[0].Stats.Shape
	}

	records := make([]model.StatRecord, len(entities))
	for i, e := range entities {
		records[i] = e.Stats
	}
	return SumRecords(shape, records...)
}

// SumRecords adds up records into a record of the given shape.
func SumRecords(shape model.Shape, records ...model.StatRecord) model.StatRecord {
	total := model.NewStatRecord(shape)
	for _, r := range records {
		for _, f := range total.Fields() {
			total.Add(f, r.Get(f))
		}
	}
	return total
}

// RollupConfig returns the grand total over the three groups, or nil when not requested.
// The total has the engagement shape: channel groups contribute their views only.
func RollupConfig(videos, playlists, channels []model.Entity, includeTotal bool) *model.StatRecord {
	if !includeTotal {
		return nil
	}
	total := SumRecords(model.ShapeEngagement, Sum(videos), Sum(playlists), Sum(channels))
	return &total
}
