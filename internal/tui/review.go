package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/isuhosts/isuhosts/internal/fleet"
)

const (
	listWidth     = 26
	defaultWidth  = 100
	defaultHeight = 24
	// title, path, message and help lines plus pane borders
	chromeHeight = 7
)

// ApplyFunc writes the reviewed rewrites and returns the number of files
// written.
type ApplyFunc func([]*fleet.Rewrite) (int, error)

// Result is the outcome of a review session.
type Result struct {
	Applied bool
	Written int
	Err     error
}

type appliedMsg struct {
	written int
	err     error
}

type reviewItem struct {
	rw      *fleet.Rewrite
	diff    []fleet.DiffLine
	added   int
	removed int
}

// Model is the Bubble Tea model of the review screen.
type Model struct {
	items    []reviewItem
	applyFn  ApplyFunc
	cursor   int
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width    int
	height   int
	applying bool
	message  string
	isError  bool
	result   Result
}

// NewModel creates a review model over planned rewrites.
func NewModel(rewrites []*fleet.Rewrite, apply ApplyFunc) *Model {
	items := make([]reviewItem, 0, len(rewrites))
	for _, rw := range rewrites {
		item := reviewItem{rw: rw, diff: rw.Diff()}
		for _, l := range item.diff {
			switch l.Op {
			case fleet.DiffInsert:
				item.added++
			case fleet.DiffDelete:
				item.removed++
			}
		}
		items = append(items, item)
	}

	vp := viewport.New(defaultWidth-listWidth-4, defaultHeight-chromeHeight)
	// Up and down move between hosts.
	vp.KeyMap.Up.SetEnabled(false)
	vp.KeyMap.Down.SetEnabled(false)

	m := &Model{
		items:    items,
		applyFn:  apply,
		viewport: vp,
		help:     help.New(),
		keys:     newKeyMap(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.refreshDiff()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("isuhosts review")
}

// Result returns the outcome so far.
func (m *Model) Result() Result {
	return m.result
}

func (m *Model) changedCount() int {
	n := 0
	for _, it := range m.items {
		if it.rw.Changed() {
			n++
		}
	}
	return n
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.viewport.Width = max(width-listWidth-4, 10)
	m.viewport.Height = max(height-chromeHeight, 3)
}

func (m *Model) refreshDiff() {
	if len(m.items) == 0 {
		m.viewport.SetContent("No hosts to review.")
		return
	}

	item := m.items[m.cursor]
	if !item.rw.Changed() {
		m.viewport.SetContent(equalStyle.Render("No changes for " + item.rw.Name + "."))
		m.viewport.GotoTop()
		return
	}

	lines := make([]string, len(item.diff))
	for i, l := range item.diff {
		lines[i] = DiffLine(l)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoTop()
}

func (m *Model) apply() tea.Cmd {
	rewrites := make([]*fleet.Rewrite, len(m.items))
	for i, it := range m.items {
		rewrites[i] = it.rw
	}
	applyFn := m.applyFn
	return func() tea.Msg {
		written, err := applyFn(rewrites)
		return appliedMsg{written: written, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case appliedMsg:
		m.applying = false
		m.result = Result{Applied: msg.err == nil, Written: msg.written, Err: msg.err}
		if msg.err != nil {
			m.message = fmt.Sprintf("Apply failed after %d file(s): %v", msg.written, msg.err)
			m.isError = true
			return m, nil
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshDiff()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.refreshDiff()
		}

	case key.Matches(msg, m.keys.Apply):
		if m.applying || m.result.Applied || m.applyFn == nil {
			return m, nil
		}
		m.applying = true
		m.message = "Applying..."
		m.isError = false
		return m, m.apply()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) renderList() string {
	var rows []string
	for i, it := range m.items {
		label := fmt.Sprintf("%s %s", Indicator(it.rw.Changed()), it.rw.Name)
		if it.rw.Changed() {
			label += fmt.Sprintf(" +%d -%d", it.added, it.removed)
		}
		style := itemStyle
		if i == m.cursor {
			style = selectedItemStyle
		}
		rows = append(rows, style.Width(listWidth-2).Render(label))
	}
	if len(rows) == 0 {
		rows = append(rows, itemStyle.Render("(none)"))
	}
	return listPaneStyle.
		Width(listWidth).
		Height(m.viewport.Height).
		Render(strings.Join(rows, "\n"))
}

// View renders the review screen.
func (m *Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("isuhosts review · %d host(s), %d changed", len(m.items), m.changedCount())
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	path := ""
	if len(m.items) > 0 {
		path = m.items[m.cursor].rw.Path
	}
	b.WriteString(pathStyle.Render(path))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(),
		diffPaneStyle.Render(m.viewport.View()),
	))
	b.WriteString("\n")

	switch {
	case m.message == "":
	case m.isError:
		b.WriteString(errorMsgStyle.Render(m.message))
	default:
		b.WriteString(successMsgStyle.Render(m.message))
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Review runs the review screen until the user quits or the rewrites are
// applied.
func Review(rewrites []*fleet.Rewrite, apply ApplyFunc) (Result, error) {
	m := NewModel(rewrites, apply)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return Result{}, err
	}
	return m.Result(), nil
}
