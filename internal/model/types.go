// Package model defines shared data structures.
package model

import (
	"strconv"

	"github.com/verte-zerg/roomstats/internal/timecodec"
)

// TimeMode selects which measurement summaries are computed over.
type TimeMode int

const (
	// ModePracticeSegment uses the practice-segment "S.FF" timer.
	ModePracticeSegment TimeMode = iota
	// ModeRealTime uses real time (RTA) decimal seconds.
	ModeRealTime
)

func (m TimeMode) String() string {
	if m == ModeRealTime {
		return "real time (ss.ms)"
	}
	return "practice segment (ss.ff)"
}

// Format renders a decimal-seconds value in the mode's representation.
// Missing values render as an empty string.
func (m TimeMode) Format(v *float64) string {
	if v == nil {
		return ""
	}
	if m == ModeRealTime {
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return timecodec.Encode(*v)
}

// RunConfig holds the merged settings for one aggregation run.
type RunConfig struct {
	CSVDir    string `flag:"csv-dir" validate:"required"`
	Output    string `flag:"output" validate:"required"`
	OutputDir string `flag:"output-dir"`
	Mode      TimeMode
	KeepParts bool   `flag:"keep-parts"`
	LogLevel  string `flag:"log-level" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
}

// RoomVisitRecord is one row of a session export, in visit order.
type RoomVisitRecord struct {
	RoomID   string
	RoomName string
	// PracticeSegmentTime keeps the original "S.FF" text; nil when the cell is empty.
	PracticeSegmentTime *string
	InGameTime          string
	RealTime            *float64
	LagFrames           string
}

// Measurements returns the per-attempt measurement fields of the record.
func (r RoomVisitRecord) Measurements() Measurements {
	return Measurements{
		PracticeSegmentTime: r.PracticeSegmentTime,
		InGameTime:          r.InGameTime,
		RealTime:            r.RealTime,
		LagFrames:           r.LagFrames,
	}
}

// AttemptSegment is a contiguous slice of one session export between resets.
type AttemptSegment struct {
	// Source is the export file the segment was cut from.
	Source string
	// Part is the 1-based position of the segment within Source.
	Part    int
	Records []RoomVisitRecord
}

// Attempt is a non-empty segment with its global attempt number.
type Attempt struct {
	Number  int
	Segment AttemptSegment
}

// Measurements holds the four measurement fields one attempt contributes to a row.
type Measurements struct {
	PracticeSegmentTime *string
	InGameTime          string
	RealTime            *float64
	LagFrames           string
}

// AlignedRow is one room position across all attempts.
type AlignedRow struct {
	RowIndex int
	RoomID   string
	RoomName string
	// Attempts has one slot per attempt, indexed by attempt number - 1.
	// A nil slot means the attempt has no record at this position.
	Attempts []*Measurements
}

// AlignedTable is the result of aligning all attempts by room position.
type AlignedTable struct {
	Attempts int
	Rows     []AlignedRow
}

// SummaryRow carries per-position statistics. Times are decimal seconds;
// Mode decides how they are rendered.
type SummaryRow struct {
	RowIndex int
	RoomID   string
	RoomName string
	N        int
	Mode     TimeMode
	Best     *float64
	Average  *float64
	StdDev   *float64
}

// BestTime renders Best in the row's time mode.
func (r SummaryRow) BestTime() string { return r.Mode.Format(r.Best) }

// AverageTime renders Average in the row's time mode.
func (r SummaryRow) AverageTime() string { return r.Mode.Format(r.Average) }

// StdDevTime renders StdDev in the row's time mode.
func (r SummaryRow) StdDevTime() string { return r.Mode.Format(r.StdDev) }
