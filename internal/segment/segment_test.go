package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/roomstats/internal/model"
)

func rooms(names ...string) []model.RoomVisitRecord {
	records := make([]model.RoomVisitRecord, len(names))
	for i, name := range names {
		records[i] = model.RoomVisitRecord{RoomName: name}
	}
	return records
}

func segmentNames(segments []model.AttemptSegment) [][]string {
	out := make([][]string, len(segments))
	for i, seg := range segments {
		out[i] = []string{}
		for _, rec := range seg.Records {
			out[i] = append(out[i], rec.RoomName)
		}
	}
	return out
}

func TestSplitNoSplitWhenNeighboursMatch(t *testing.T) {
	records := rooms("A", BeforeReset, ResetRoom, AfterReset, "B")
	segments := Split("run.csv", records)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if diff := cmp.Diff(records, segments[0].Records); diff != "" {
		t.Fatalf("segment differs from input (-want +got):\n%s", diff)
	}
}

func TestSplitAtBareReset(t *testing.T) {
	segments := Split("run.csv", rooms("A", ResetRoom, "B"))
	want := [][]string{{"A"}, {ResetRoom, "B"}}
	if diff := cmp.Diff(want, segmentNames(segments)); diff != "" {
		t.Fatalf("unexpected segments (-want +got):\n%s", diff)
	}
	if segments[0].Part != 1 || segments[1].Part != 2 {
		t.Fatalf("unexpected part numbers: %d, %d", segments[0].Part, segments[1].Part)
	}
	if segments[1].Source != "run.csv" {
		t.Fatalf("unexpected source %q", segments[1].Source)
	}
}

func TestSplitOneSidedMismatch(t *testing.T) {
	cases := []struct {
		name  string
		input []string
		want  [][]string
	}{
		{
			name:  "wrong predecessor",
			input: []string{"A", "B", ResetRoom, AfterReset},
			want:  [][]string{{"A", "B"}, {ResetRoom, AfterReset}},
		},
		{
			name:  "wrong successor",
			input: []string{BeforeReset, ResetRoom, "B"},
			want:  [][]string{{BeforeReset}, {ResetRoom, "B"}},
		},
		{
			name:  "reset at start",
			input: []string{ResetRoom, AfterReset, "C"},
			want:  [][]string{{}, {ResetRoom, AfterReset, "C"}},
		},
		{
			name:  "reset at end",
			input: []string{"A", BeforeReset, ResetRoom},
			want:  [][]string{{"A", BeforeReset}, {ResetRoom}},
		},
		{
			name:  "several resets",
			input: []string{ResetRoom, "A", ResetRoom, "B", BeforeReset, ResetRoom, AfterReset, ResetRoom},
			want:  [][]string{{}, {ResetRoom, "A"}, {ResetRoom, "B", BeforeReset, ResetRoom, AfterReset}, {ResetRoom}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := segmentNames(Split("x.csv", rooms(tc.input...)))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected segments (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitCoversInputExactlyOnce(t *testing.T) {
	records := rooms("A", ResetRoom, "B", "C", ResetRoom, ResetRoom, "D")
	segments := Split("x.csv", records)
	total := 0
	for _, seg := range segments {
		total += len(seg.Records)
	}
	if total != len(records) {
		t.Fatalf("expected %d records across segments, got %d", len(records), total)
	}
	if got := Resets(records); got != 3 {
		t.Fatalf("expected 3 resets, got %d", got)
	}
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
}

func TestSplitEmptyInput(t *testing.T) {
	segments := Split("empty.csv", nil)
	if len(segments) != 1 || len(segments[0].Records) != 0 {
		t.Fatalf("expected a single empty segment, got %+v", segments)
	}
}

func TestIsResetOutOfRange(t *testing.T) {
	records := rooms(ResetRoom)
	if !IsReset(records, 0) {
		t.Fatalf("expected lone reset room to count as reset")
	}
	if IsReset(records, -1) || IsReset(records, 1) {
		t.Fatalf("out of range index must not be a reset")
	}
}
