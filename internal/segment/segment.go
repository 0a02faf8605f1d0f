// Package segment splits session exports into attempts at detected resets.
package segment

import "github.com/verte-zerg/roomstats/internal/model"

// Room names that make up the reset signature. In a completed run the Ceres
// elevator sits between Falling Tile Room and Landing Site.
const (
	ResetRoom   = "Ceres Elevator Room"
	BeforeReset = "Falling Tile Room"
	AfterReset  = "Landing Site"
)

// IsReset reports whether records[i] starts a new attempt.
// Neighbours outside the slice never match.
func IsReset(records []model.RoomVisitRecord, i int) bool {
	if i < 0 || i >= len(records) || records[i].RoomName != ResetRoom {
		return false
	}
	return roomNameAt(records, i-1) != BeforeReset || roomNameAt(records, i+1) != AfterReset
}

func roomNameAt(records []model.RoomVisitRecord, i int) string {
	if i < 0 || i >= len(records) {
		return ""
	}
	return records[i].RoomName
}

// Split cuts records into contiguous segments, starting a new one at every
// reset row. The reset row belongs to the segment it starts. A reset on the
// first row produces an empty leading segment; without resets the whole
// input is a single segment.
func Split(source string, records []model.RoomVisitRecord) []model.AttemptSegment {
	bounds := []int{0}
	for i := range records {
		if IsReset(records, i) {
			bounds = append(bounds, i)
		}
	}
	bounds = append(bounds, len(records))

	segments := make([]model.AttemptSegment, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		start, stop := bounds[i], bounds[i+1]
		segments = append(segments, model.AttemptSegment{
			Source:  source,
			Part:    i + 1,
			Records: records[start:stop:stop],
		})
	}
	return segments
}

// Resets counts the reset rows in records.
func Resets(records []model.RoomVisitRecord) int {
	n := 0
	for i := range records {
		if IsReset(records, i) {
			n++
		}
	}
	return n
}
