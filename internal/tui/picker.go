// Package tui holds the interactive terminal views.
package tui

import (
	"fmt"
	"io"
	"strings"

	"agentsync/internal/logging"
	"agentsync/internal/providers"
	"agentsync/internal/ui"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Accept key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.All, k.Accept, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5fd2")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff5f"))
	helpStyle     = lipgloss.NewStyle().MarginTop(1)
)

// ProviderPicker lets the user choose which providers generation writes.
// An empty selection on accept means every provider, matching an empty
// providers list in the config file.
type ProviderPicker struct {
	logger *logging.AppLogger

	providers []providers.Provider
	selected  map[string]bool
	cursor    int

	keys KeyMap
	help help.Model

	width     int
	accepted  bool
	cancelled bool
	warning   string
}

// NewProviderPicker starts with current preselected. An empty current
// preselects every provider.
func NewProviderPicker(current []string, logger *logging.AppLogger) *ProviderPicker {
	selected := make(map[string]bool, len(providers.Providers))
	if len(current) == 0 {
		for _, p := range providers.Providers {
			selected[p.ID] = true
		}
	} else {
		for _, id := range current {
			selected[id] = true
		}
	}

	return &ProviderPicker{
		logger:    logger,
		providers: providers.Providers,
		selected:  selected,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		width:     ui.DefaultWidth,
	}
}

func (m *ProviderPicker) Init() tea.Cmd {
	return nil
}

func (m *ProviderPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.warning = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.logger.Debug("Provider selection cancelled")
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.providers)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			id := m.providers[m.cursor].ID
			m.selected[id] = !m.selected[id]

		case key.Matches(msg, m.keys.All):
			all := len(m.Selected()) != len(m.providers)
			for _, p := range m.providers {
				m.selected[p.ID] = all
			}

		case key.Matches(msg, m.keys.Accept):
			if len(m.Selected()) == 0 {
				m.warning = "Select at least one provider"
				return m, nil
			}
			m.logger.Debug("Providers selected", "providers", m.Selected())
			m.accepted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ProviderPicker) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("Providers to generate"))
	b.WriteString("\n\n")

	for i, p := range m.providers {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		name := p.Name
		if m.selected[p.ID] {
			box = selectedStyle.Render("[x]")
			name = selectedStyle.Render(name)
		}
		b.WriteString(cursor + box + " " + name + " " + ui.MutedStyle.Render("("+p.ID+")") + "\n")
	}

	if len(m.providers) > 0 {
		explanation := wordwrap.String(m.providers[m.cursor].Explanation, max(m.width-4, 20))
		b.WriteString("\n" + ui.ListStyle.Render(ui.MutedStyle.Render(explanation)) + "\n")
	}

	if m.warning != "" {
		b.WriteString("\n" + ui.WarningStyle.Render("! "+m.warning) + "\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the chosen provider ids in table order.
func (m *ProviderPicker) Selected() []string {
	var ids []string
	for _, p := range m.providers {
		if m.selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Accepted reports whether the user confirmed the selection.
func (m *ProviderPicker) Accepted() bool {
	return m.accepted && !m.cancelled
}

// Result converts the selection to the config representation: nil when
// every provider is selected.
func (m *ProviderPicker) Result() []string {
	ids := m.Selected()
	if len(ids) == len(m.providers) {
		return nil
	}
	return ids
}

// PickProviders runs the picker on in and out. ok is false when the user
// cancelled.
func PickProviders(current []string, in io.Reader, out io.Writer, logger *logging.AppLogger) (ids []string, ok bool, err error) {
	m := NewProviderPicker(current, logger)
	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("provider picker failed: %w", err)
	}
	picked := final.(*ProviderPicker)
	if !picked.Accepted() {
		return nil, false, nil
	}
	return picked.Result(), true, nil
}
