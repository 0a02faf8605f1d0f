// Package statsui provides the Bubble Tea summary browser.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea summary browser.
type Model struct {
	source  string
	aligned model.AlignedTable
	mode    model.TimeMode

	rows   []model.SummaryRow
	errMsg string

	table table.Model

	width  int
	height int
}

// NewModel constructs a browser over an aligned table. source labels the
// header, usually the export directory.
func NewModel(source string, aligned model.AlignedTable, mode model.TimeMode) *Model {
	m := &Model{
		source:  source,
		aligned: aligned,
		mode:    mode,
	}
	m.table = table.New(
		table.WithColumns(summaryColumns(nil)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(summaryTableStyles())
	m.refresh()
	return m
}

// Mode returns the time mode currently shown.
func (m *Model) Mode() model.TimeMode {
	return m.mode
}

// Rows returns the summary rows currently shown.
func (m *Model) Rows() []model.SummaryRow {
	return m.rows
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "m":
			m.toggleMode()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) toggleMode() {
	if m.mode == model.ModeRealTime {
		m.mode = model.ModePracticeSegment
	} else {
		m.mode = model.ModeRealTime
	}
	m.refresh()
}

func (m *Model) refresh() {
	rows, err := stats.Summarize(m.aligned, m.mode)
	if err != nil {
		m.errMsg = err.Error()
		m.rows = nil
		m.table.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.rows = rows
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(stats.SummaryCells(row))
	}
	// Columns first: SetRows renders against the current column count.
	m.table.SetColumns(summaryColumns(tableRows))
	m.table.SetRows(tableRows)
	m.table.GotoTop()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	titleHeight := lipgloss.Height(titleStyle.Render("X"))
	if titleHeight < 1 {
		titleHeight = 1
	}
	headerHeight = titleHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetWidth(m.width)
	// One line of the body goes to the table header border.
	m.table.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderHeader() string {
	title := padLines(titleStyle.Render("Room Stats"), m.width)
	summary := fmt.Sprintf("Source: %s  attempts=%d  rooms=%d  times=%s", m.source, m.aligned.Attempts, len(m.aligned.Rows), m.mode)
	return title + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.errMsg != "" {
		return "Failed to compute stats."
	}
	if len(m.rows) == 0 {
		return "No rooms found."
	}
	return tableMutedStyle.Render(m.table.View())
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Scroll: up/down/pgup/pgdn  Top/Bottom: g/G  Mode: m  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func summaryColumns(rows []table.Row) []table.Column {
	columns := make([]table.Column, len(stats.SummaryHeader))
	for i, title := range stats.SummaryHeader {
		width := lipgloss.Width(title)
		for _, row := range rows {
			if i < len(row) {
				width = maxInt(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: title, Width: width}
	}
	return columns
}

func summaryTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
