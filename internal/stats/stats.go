// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/timecodec"
)

// Description is the descriptive statistics of one set of times.
// Best, Average and StdDev are nil when N is 0.
type Description struct {
	N       int
	Best    *float64
	Average *float64
	StdDev  *float64
}

// Describe computes count, minimum, mean and population standard deviation.
// The standard deviation of a single value is 0.
func Describe(values []float64) Description {
	d := Description{N: len(values)}
	if d.N == 0 {
		return d
	}
	best := floats.Min(values)
	mean, std := stat.PopMeanStdDev(values, nil)
	if d.N <= 1 {
		std = 0
	}
	d.Best = &best
	d.Average = &mean
	d.StdDev = &std
	return d
}

// Summarize computes one summary row per aligned row over the measurement
// selected by mode. Practice-segment times are decoded to decimal seconds.
func Summarize(table model.AlignedTable, mode model.TimeMode) ([]model.SummaryRow, error) {
	out := make([]model.SummaryRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		values, err := collect(row, mode)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", row.RowIndex, row.RoomName, err)
		}
		d := Describe(values)
		out = append(out, model.SummaryRow{
			RowIndex: row.RowIndex,
			RoomID:   row.RoomID,
			RoomName: row.RoomName,
			N:        d.N,
			Mode:     mode,
			Best:     d.Best,
			Average:  d.Average,
			StdDev:   d.StdDev,
		})
	}
	return out, nil
}

// collect returns the non-missing selected measurement in attempt order.
func collect(row model.AlignedRow, mode model.TimeMode) ([]float64, error) {
	values := make([]float64, 0, len(row.Attempts))
	for i, m := range row.Attempts {
		if m == nil {
			continue
		}
		if mode == model.ModeRealTime {
			if m.RealTime != nil {
				values = append(values, *m.RealTime)
			}
			continue
		}
		v, err := timecodec.DecodeOptional(m.PracticeSegmentTime)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", i+1, err)
		}
		if v != nil {
			values = append(values, *v)
		}
	}
	return values, nil
}
