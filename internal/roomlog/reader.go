// Package roomlog reads and writes room-time CSV exports and summaries.
package roomlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/timecodec"
)

// RecordHeader is the column order of session exports and part files.
var RecordHeader = []string{"RoomID", "RoomName", "PracticeRomTime", "IGT", "RTA", "LagFrames"}

// RowError reports a malformed input row.
type RowError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s:%d: column %s: %v", e.Source, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ReadRaw reads a headerless session export.
func ReadRaw(r io.Reader, source string) ([]model.RoomVisitRecord, error) {
	return read(r, source, false)
}

// ReadPart reads a part file, which carries a header row.
func ReadPart(r io.Reader, source string) ([]model.RoomVisitRecord, error) {
	return read(r, source, true)
}

func read(r io.Reader, source string, header bool) ([]model.RoomVisitRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(RecordHeader)

	var records []model.RoomVisitRecord
	first := true
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvRowError(source, err)
		}
		line, _ := reader.FieldPos(0)
		if first && header {
			first = false
			if err := checkHeader(fields); err != nil {
				return nil, &RowError{Source: source, Line: line, Err: err}
			}
			continue
		}
		first = false
		rec, rowErr := parseRecord(fields)
		if rowErr != nil {
			rowErr.Source = source
			rowErr.Line = line
			return nil, rowErr
		}
		records = append(records, rec)
	}
	return records, nil
}

func csvRowError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &RowError{Source: source, Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("failed to read %s: %w", source, err)
}

func checkHeader(fields []string) error {
	for i, name := range RecordHeader {
		if strings.TrimSpace(fields[i]) != name {
			return fmt.Errorf("unexpected header %q, want %q", strings.Join(fields, ","), strings.Join(RecordHeader, ","))
		}
	}
	return nil
}

func parseRecord(fields []string) (model.RoomVisitRecord, *RowError) {
	rec := model.RoomVisitRecord{
		RoomID:     fields[0],
		RoomName:   fields[1],
		InGameTime: fields[3],
		LagFrames:  fields[5],
	}
	if text := strings.TrimSpace(fields[2]); !isMissing(text) {
		if _, err := timecodec.Decode(text); err != nil {
			return rec, &RowError{Column: RecordHeader[2], Err: err}
		}
		rec.PracticeSegmentTime = &text
	}
	if text := strings.TrimSpace(fields[4]); !isMissing(text) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return rec, &RowError{Column: RecordHeader[4], Err: fmt.Errorf("invalid real time %q", text)}
		}
		rec.RealTime = &v
	}
	return rec, nil
}

// isMissing matches the empty and NaN cells spreadsheet tools write for blanks.
func isMissing(text string) bool {
	return text == "" || strings.EqualFold(text, "nan")
}
