// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
	"github.com/verte-zerg/wordcram/internal/stats"
	"github.com/verte-zerg/wordcram/internal/store"
)

const (
	tabOverview = iota
	tabWords
	tabSessions
)

const (
	plotHeight   = 8
	defaultWidth = 80
	curveWindow  = 3
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	progress *progress.Store
	history  *store.Store
	cfg      model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	words     table.Model
	sessions  table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. history may be nil when review
// history is disabled.
func NewModel(st *progress.Store, history *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		progress: st,
		history:  history,
		cfg:      cfg,
		tabs:     []string{"Overview", "Words", "Sessions"},
		overview: viewport.New(0, 0),
		words:    newTable(wordColumns()),
		sessions: newTable(sessionColumns()),
	}
	m.refreshReport()
	return m
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
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabWords:
			m.words, cmd = m.words.Update(msg)
		case tabSessions:
			m.sessions, cmd = m.sessions.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
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
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.progress, m.history, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.words.SetRows(wordRows(stats.LowestWords(m.progress, 0)))
	m.sessions.SetRows(sessionRows(report.Sessions))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(r stats.Report, width int) string {
	cards := []string{
		metricCard("Words", fmt.Sprintf("%d", r.WordsCount)),
		metricCard("Finished", fmt.Sprintf("%d", r.FinishedCount)),
		metricCard("Weak", fmt.Sprintf("%d", r.WeakCount)),
	}
	if r.History {
		cards = append(cards,
			metricCard("Sessions", fmt.Sprintf("%d", len(r.Sessions))),
			metricCard("Reviews", fmt.Sprintf("%d", r.TotalReviews())),
		)
	}
	var summary string
	if width < defaultWidth {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var buf bytes.Buffer
	buckets := make([]string, 0, len(r.Buckets)+1)
	buckets = append(buckets, "Proficiency")
	for _, b := range r.Buckets {
		buckets = append(buckets, fmt.Sprintf("  %-9s %d", b.Label, b.Count))
	}
	buf.WriteString(strings.Join(buckets, "\n"))
	buf.WriteString("\n\n")
	if !r.History {
		buf.WriteString("Review history is disabled.")
		return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
	}
	if err := stats.RenderLevelTable(&buf, r.Levels); err != nil {
		return fmt.Sprintf("Failed to render ratings: %v", err)
	}
	if err := stats.RenderHardestTable(&buf, r.Hardest); err != nil {
		return fmt.Sprintf("Failed to render hardest words: %v", err)
	}
	if err := stats.RenderCurves(&buf, r.Sessions, curveWindow, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.words, &m.sessions} {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.words.Blur()
	m.sessions.Blur()
	switch m.activeTab {
	case tabWords:
		m.words.Focus()
	case tabSessions:
		m.sessions.Focus()
	}
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabWords:
		if top {
			m.words.GotoTop()
		} else {
			m.words.GotoBottom()
		}
	case tabSessions:
		if top {
			m.sessions.GotoTop()
		} else {
			m.sessions.GotoBottom()
		}
	default:
		if top {
			m.overview.GotoTop()
		} else {
			m.overview.GotoBottom()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabWords:
		if len(m.words.Rows()) == 0 {
			return "No words to practice."
		}
		return tableMutedStyle.Render(m.words.View())
	case tabSessions:
		if !m.report.History {
			return "Review history is disabled."
		}
		if len(m.sessions.Rows()) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.sessions.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(truncateLine("Nav: left/right  Scroll: up/down/pgup/pgdn  Top/bottom: g/G  Reload: r  Quit: q", m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func wordColumns() []table.Column {
	return []table.Column{
		{Title: "Term", Width: 24},
		{Title: "Translation", Width: 24},
		{Title: "Proficiency", Width: 11},
		{Title: "Last Level", Width: 12},
	}
}

func sessionColumns() []table.Column {
	widths := []int{16, 24, 9, 6, 7}
	columns := make([]table.Column, len(stats.SessionHeaders))
	for i, title := range stats.SessionHeaders {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	return columns
}

func wordRows(words []stats.WordRow) []table.Row {
	rows := make([]table.Row, 0, len(words))
	for _, w := range words {
		rows = append(rows, table.Row{
			w.Term,
			w.Translation,
			fmt.Sprintf("%d", w.Proficiency),
			w.LastLevel.Label(),
		})
	}
	return rows
}

// sessionRows lists sessions newest first.
func sessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(stats.SessionRow(sessions[i])))
	}
	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
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
