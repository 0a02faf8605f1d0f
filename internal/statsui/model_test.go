package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/roomstats/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleTable() model.AlignedTable {
	return model.AlignedTable{
		Attempts: 2,
		Rows: []model.AlignedRow{
			{
				RowIndex: 0, RoomID: "1", RoomName: "Landing Site",
				Attempts: []*model.Measurements{
					{PracticeSegmentTime: ptr("20.00"), RealTime: ptr(12.5)},
					{PracticeSegmentTime: ptr("21.00"), RealTime: ptr(13.0)},
				},
			},
			{
				RowIndex: 1, RoomID: "2", RoomName: "Parlor",
				Attempts: []*model.Measurements{nil, {PracticeSegmentTime: ptr("7.45"), RealTime: ptr(8.0)}},
			},
		},
	}
}

func TestModelToggleMode(t *testing.T) {
	m := NewModel("/runs", sampleTable(), model.ModePracticeSegment)
	if got := m.Rows()[0].AverageTime(); got != "20.30" {
		t.Fatalf("unexpected practice average %q", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = next.(*Model)
	if m.Mode() != model.ModeRealTime {
		t.Fatalf("expected real-time mode after toggle, got %s", m.Mode())
	}
	if got := m.Rows()[0].AverageTime(); got != "12.75" {
		t.Fatalf("unexpected real-time average %q", got)
	}
	if n := m.Rows()[1].N; n != 1 {
		t.Fatalf("expected one value in second row, got %d", n)
	}
}

func TestModelView(t *testing.T) {
	m := NewModel("/runs", sampleTable(), model.ModeRealTime)
	if m.View() != "" {
		t.Fatalf("expected empty view before sizing")
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 12})
	m = next.(*Model)
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for _, want := range []string{"attempts=2", "times=real time", "Landing Site", "AverageTime", "Mode: m"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel("/runs", sampleTable(), model.ModeRealTime)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestModelSummarizeError(t *testing.T) {
	aligned := model.AlignedTable{
		Attempts: 1,
		Rows: []model.AlignedRow{{
			RowIndex: 0, RoomID: "1", RoomName: "Bad",
			Attempts: []*model.Measurements{{PracticeSegmentTime: ptr("1.75")}},
		}},
	}
	m := NewModel("/runs", aligned, model.ModePracticeSegment)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	view := next.(*Model).View()
	if !strings.Contains(view, "Failed to compute stats.") {
		t.Fatalf("expected failure message:\n%s", view)
	}
}
