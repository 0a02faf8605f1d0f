package roomlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/stats"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultExtension is appended to output names without a recognised extension.
const DefaultExtension = ".csv"

// OutputFormatFor returns the format implied by path's extension.
func OutputFormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// NormalizeOutputPath appends DefaultExtension when path has no recognised extension.
func NormalizeOutputPath(path string) string {
	if _, ok := OutputFormatFor(path); ok {
		return path
	}
	return path + DefaultExtension
}

// PartFileName names the k-th part file cut from source.
func PartFileName(source string, part int) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_part%d.csv", stem, part)
}

// WritePart writes a segment in part-file form: header plus six columns.
func WritePart(w io.Writer, seg model.AttemptSegment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(RecordHeader); err != nil {
		return fmt.Errorf("failed to write part header: %w", err)
	}
	for _, rec := range seg.Records {
		if err := writer.Write(recordCells(rec)); err != nil {
			return fmt.Errorf("failed to write part row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func recordCells(rec model.RoomVisitRecord) []string {
	pst := ""
	if rec.PracticeSegmentTime != nil {
		pst = *rec.PracticeSegmentTime
	}
	rta := ""
	if rec.RealTime != nil {
		rta = strconv.FormatFloat(*rec.RealTime, 'f', -1, 64)
	}
	return []string{rec.RoomID, rec.RoomName, pst, rec.InGameTime, rta, rec.LagFrames}
}

// WriteSummary writes rows in the given format.
func WriteSummary(w io.Writer, format Format, rows []model.SummaryRow) error {
	switch format {
	case FormatCSV:
		return WriteSummaryCSV(w, rows)
	case FormatXLSX:
		return WriteSummaryXLSX(w, rows)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// WriteSummaryCSV writes the summary header and one line per row.
// Missing times are empty cells.
func WriteSummaryCSV(w io.Writer, rows []model.SummaryRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(stats.SummaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(stats.SummaryCells(row)); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", row.RowIndex, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
