// Package align merges attempt segments into a table keyed by room position.
package align

import "github.com/verte-zerg/roomstats/internal/model"

// Number drops empty segments and numbers the rest 1..N in input order.
func Number(segments []model.AttemptSegment) []model.Attempt {
	attempts := make([]model.Attempt, 0, len(segments))
	for _, seg := range segments {
		if len(seg.Records) == 0 {
			continue
		}
		attempts = append(attempts, model.Attempt{
			Number:  len(attempts) + 1,
			Segment: seg,
		})
	}
	return attempts
}

// Align builds one row per room position, from 0 to the longest attempt's
// length. Room identity comes from the lowest-numbered attempt that reaches
// the position; later attempts that disagree are not checked.
func Align(attempts []model.Attempt) model.AlignedTable {
	maxLen := 0
	for _, a := range attempts {
		if n := len(a.Segment.Records); n > maxLen {
			maxLen = n
		}
	}

	rows := make([]model.AlignedRow, maxLen)
	for idx := range rows {
		row := model.AlignedRow{
			RowIndex: idx,
			Attempts: make([]*model.Measurements, len(attempts)),
		}
		identified := false
		for i, a := range attempts {
			if idx >= len(a.Segment.Records) {
				continue
			}
			rec := a.Segment.Records[idx]
			if !identified {
				row.RoomID = rec.RoomID
				row.RoomName = rec.RoomName
				identified = true
			}
			m := rec.Measurements()
			row.Attempts[i] = &m
		}
		rows[idx] = row
	}
	return model.AlignedTable{Attempts: len(attempts), Rows: rows}
}
