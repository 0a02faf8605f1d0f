package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/roomstats/internal/model"
)

// SummaryHeader is the column order of the summary output.
var SummaryHeader = []string{"RowIndex", "RoomID", "RoomName", "N", "BestTime", "AverageTime", "StdDevTime"}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))

// SummaryCells renders a summary row in SummaryHeader order.
func SummaryCells(row model.SummaryRow) []string {
	return []string{
		strconv.Itoa(row.RowIndex),
		row.RoomID,
		row.RoomName,
		strconv.Itoa(row.N),
		row.BestTime(),
		row.AverageTime(),
		row.StdDevTime(),
	}
}

// RenderSummary prints the summary as an aligned text table.
func RenderSummary(w io.Writer, rows []model.SummaryRow) error {
	return renderSummary(w, rows, shouldUseColor(w))
}

func renderSummary(w io.Writer, rows []model.SummaryRow, useColor bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No rooms found.")
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, SummaryCells(row))
	}
	rightAlign := map[int]bool{0: true, 1: true, 3: true, 4: true, 5: true, 6: true}
	lines := formatTable(SummaryHeader, tableRows, rightAlign)
	for i, line := range lines {
		if i == 0 && useColor {
			line = headerStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nTimes: %s\n", rows[0].Mode); err != nil {
		return err
	}
	return nil
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
