// Package tui provides the Bubble Tea flashcard interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/session"
)

const (
	mainWidth   = 90
	cardWidth   = 60
	panelHeight = 9
	optionWidth = 16
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true)
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(1, 2)
	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A7BC8")).
			Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Bold(true)
	optionStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Width(optionWidth).
			Align(lipgloss.Center)
	selectedOptionStyle = optionStyle.
				BorderForeground(lipgloss.Color("#C89A3A")).
				Foreground(lipgloss.Color("#1E1E1E")).
				Background(lipgloss.Color("#C89A3A"))
)

type keyMap struct {
	Quit      key.Binding
	Next      key.Binding
	Submit    key.Binding
	Backspace key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Next, k.Submit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Next, k.Submit, k.Backspace}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("<Esc>", "quit")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("<Tab>", "clear/switch")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("<Enter>", "result")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("<Backspace>", "delete")),
	}
}

// Model implements the Bubble Tea flashcard UI on top of a session engine.
type Model struct {
	engine *session.Engine
	title  string
	keys   keyMap
	help   help.Model

	width  int
	height int

	err error
}

// NewModel constructs the practice UI. The engine must already be started.
func NewModel(engine *session.Engine, title string) *Model {
	return &Model{
		engine: engine,
		title:  title,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Err returns the fatal error that stopped the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.engine.Done() {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.apply(m.actionsFor(msg)...)
	default:
		return m, nil
	}
}

func (m *Model) actionsFor(msg tea.KeyMsg) []session.Action {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []session.Action{{Kind: session.ActionQuit}}
	case key.Matches(msg, m.keys.Next):
		return []session.Action{{Kind: session.ActionClear}}
	case key.Matches(msg, m.keys.Submit):
		return []session.Action{{Kind: session.ActionSubmit}}
	case key.Matches(msg, m.keys.Backspace):
		return []session.Action{{Kind: session.ActionBackspace}}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []session.Action{{Kind: session.ActionType, Char: ' '}}
	case tea.KeyRunes:
		actions := make([]session.Action, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			actions = append(actions, session.Action{Kind: session.ActionType, Char: r})
		}
		return actions
	}
	return nil
}

func (m *Model) apply(actions ...session.Action) tea.Cmd {
	for _, action := range actions {
		if err := m.engine.Handle(action); err != nil {
			m.err = err
			return tea.Quit
		}
	}
	if m.engine.Done() {
		return tea.Quit
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.engine.Done() {
		return ""
	}
	width := mainWidth
	if m.width > 0 && m.width < width {
		width = m.width
	}
	leftWidth := cardWidth
	if leftWidth > width-20 {
		leftWidth = width - 20
	}
	if leftWidth < 10 {
		leftWidth = 10
	}

	cursor := m.engine.Cursor()
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCard(cursor, leftWidth),
		m.renderResult(cursor, leftWidth),
	)
	status := statusStyle.
		Width(width - leftWidth - 2).
		Height(2*panelHeight + 2).
		Render(m.renderStatus(cursor))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, status)
	if cursor.Revealed {
		body = lipgloss.JoinVertical(lipgloss.Center, body, renderOptions(cursor.Selected))
	}
	body = lipgloss.JoinVertical(lipgloss.Center, body, footerStyle.Render(m.help.View(m.keys)))
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderCard(cursor session.Cursor, width int) string {
	inner := width - cardStyle.GetHorizontalFrameSize()
	var content string
	if cursor.Revealed {
		content = wrapStyledRunes(buildStyledRunes([]rune(cursor.Term), []rune(cursor.Term), -1), inner)
	} else {
		termRunes := []rune(cursor.Term)
		cursorIndex := -1
		if len(cursor.Typed) < len(termRunes) {
			cursorIndex = len(cursor.Typed)
		}
		content = wrapStyledRunes(buildStyledRunes(termRunes, cursor.Typed, cursorIndex), inner)
	}
	title := titleStyle.Render(strings.TrimSpace(m.title))
	return cardStyle.Width(width - 2).Height(panelHeight).Render(title + "\n\n" + content)
}

func (m *Model) renderResult(cursor session.Cursor, width int) string {
	content := " "
	if cursor.Revealed {
		content = cursor.Word.Translation
	}
	return resultStyle.Width(width - 2).Height(panelHeight).Render(titleStyle.Render("Result") + "\n\n" + content)
}

func (m *Model) renderStatus(cursor session.Cursor) string {
	st := m.engine.Store()
	lines := []string{
		fmt.Sprintf("Word: %s", cursor.Term),
		fmt.Sprintf("Proficiency: %d", cursor.Word.Proficiency),
		fmt.Sprintf("Last Level: %s", cursor.Word.LastLevel.Label()),
		"",
		strings.Repeat("-", 20),
		"",
		fmt.Sprintf("Words Total: %d", st.WordsCount),
		fmt.Sprintf("Finished Total: %d", st.FinishedCount),
		fmt.Sprintf("Current Count: %d", m.engine.WorkingSize()),
		fmt.Sprintf("Round: %d", m.engine.Round()),
		fmt.Sprintf("Remaining: %d", m.engine.Remaining()),
	}
	return strings.Join(lines, "\n")
}

func renderOptions(selected model.Level) string {
	options := make([]string, 0, len(model.Levels))
	for _, level := range model.Levels {
		style := optionStyle
		if level == selected {
			style = selectedOptionStyle
		}
		options = append(options, style.Render(level.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, options...)
}
