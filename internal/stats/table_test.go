package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Room", "N", "Best"}
	rows := [][]string{
		{"Landing Site", "12", "9.30"},
		{"Parlor", "3", "14.05"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Room           N   Best" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Landing Site  12   9.30" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Parlor         3  14.05" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	if got := displayWidth("部屋"); got != 4 {
		t.Fatalf("expected width 4, got %d", got)
	}
	if got := padCell("部屋", 6, false); got != "部屋  " {
		t.Fatalf("unexpected padding: %q", got)
	}
}
