// Package tui renders the dock in the terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/dock"
	"github.com/lensdock/injectable/internal/kube"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4"))
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#A0A0A0"))
	contentStyle = lipgloss.NewStyle().Padding(1, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#A0A0A0"))
)

// clusterChangedMsg is sent when the watcher saw the cluster file change.
type clusterChangedMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	dock    *dock.Dock
	source  *kube.Source
	changes <-chan struct{}

	keys KeyMap
	help help.Model

	width  int
	height int
	err    error

	// stale is set by the dock when a tab or the active tab must be
	// rendered again.
	stale        bool
	rendered     string
	cancelChange func()
}

// New builds the model from the application container. With watch set the
// cluster file watcher is started and changes reload the stores.
func New(c *injectable.Container, watch bool) (*Model, error) {
	d, err := injectable.Inject(c, dock.DockInjectable)
	if err != nil {
		return nil, err
	}
	source, err := injectable.Inject(c, kube.SourceInjectable)
	if err != nil {
		return nil, err
	}

	m := &Model{
		dock:   d,
		source: source,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		stale:  true,
	}
	if watch {
		w, err := injectable.Inject(c, kube.WatcherInjectable)
		if err != nil {
			return nil, err
		}
		m.changes = w.Changes()
	}

	m.cancelChange = d.OnChange(func() { m.stale = true })
	if err := d.EnsureActive(); err != nil {
		return nil, err
	}
	return m, nil
}

// Close stops listening to the dock.
func (m *Model) Close() {
	if m.cancelChange != nil {
		m.cancelChange()
		m.cancelChange = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return clusterChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.stale = true
		return m, nil

	case clusterChangedMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.err = m.dock.Next()
	case key.Matches(msg, m.keys.Prev):
		m.err = m.dock.Prev()
	case key.Matches(msg, m.keys.Close):
		active, err := m.dock.Active()
		if err != nil {
			m.err = err
			break
		}
		active.Close()
		m.err = m.dock.EnsureActive()
	case key.Matches(msg, m.keys.Reopen):
		m.dock.ReopenAll()
		m.err = m.dock.EnsureActive()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.stale = true
	return m, nil
}

func (m *Model) reload() {
	m.err = m.source.Reload()
	m.stale = true
}

// View renders the tab bar, the active tab and the help line. The content
// is rendered again only after the dock reported a change or a key was
// handled.
func (m *Model) View() string {
	if m.stale {
		m.rendered = m.render()
		m.stale = false
	}

	var b strings.Builder
	b.WriteString(m.rendered)
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) render() string {
	tabs, err := m.dock.Tabs()
	if err != nil {
		return errorStyle.Render("Error: " + err.Error())
	}
	active, err := m.dock.Active()
	if err != nil {
		return errorStyle.Render("Error: " + err.Error())
	}

	if len(tabs) == 0 {
		return emptyStyle.Render("All tabs are closed. Press r to reopen them.")
	}

	titles := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		style := tabStyle
		if tab.ID() == active.ID() {
			style = activeTabStyle
		}
		titles = append(titles, style.Render(tab.Title()))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, titles...)

	body, err := active.Content()
	if err != nil {
		body = errorStyle.Render("Error: " + err.Error())
	}
	content := contentStyle.Render(body)
	if m.width > 0 {
		content = contentStyle.Width(m.width).Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, content)
}
