package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/tasks"
)

// keyMap defines the [key.Binding] mapping for the confirmation prompt.
type keyMap struct {
	yes    key.Binding
	no     key.Binding
	all    key.Binding
	cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		yes:    key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "include")),
		no:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip")),
		all:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "include all")),
		cancel: key.NewBinding(key.WithKeys("c", "q", "esc", "ctrl+c"), key.WithHelp("c", "cancel run")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.yes, k.no, k.all, k.cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.yes, k.no}, {k.all, k.cancel}}
}

// ConfirmModel is a single-question prompt asking whether an artist's
// releases should be collected.
type ConfirmModel struct {
	artist   models.Artist
	decision tasks.Decision
	answered bool
	help     help.Model
	keys     keyMap
}

var _ tea.Model = &ConfirmModel{}

// NewConfirmModel creates a prompt for one artist.
func NewConfirmModel(artist models.Artist) *ConfirmModel {
	return &ConfirmModel{
		artist:   artist,
		decision: tasks.DecideCancel, // an interrupted prompt cancels the run
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Decision returns the user's answer once the prompt has quit.
func (m *ConfirmModel) Decision() tasks.Decision {
	return m.decision
}

func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.yes):
		m.decision = tasks.DecideYes
	case key.Matches(keyMsg, m.keys.no):
		m.decision = tasks.DecideNo
	case key.Matches(keyMsg, m.keys.all):
		m.decision = tasks.DecideAll
	case key.Matches(keyMsg, m.keys.cancel):
		m.decision = tasks.DecideCancel
	default:
		return m, nil
	}

	m.answered = true
	return m, tea.Quit
}

func (m *ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Include artist %q?", m.artist.Name)))
	b.WriteString("\n")
	if len(m.artist.Genres) > 0 {
		b.WriteString(styles.warn.Render(fmt.Sprintf("genres: %s", strings.Join(m.artist.Genres, ", "))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// ConfirmArtist runs the prompt and returns the user's decision.
func ConfirmArtist(artist models.Artist) (tasks.Decision, error) {
	model := NewConfirmModel(artist)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return tasks.DecideCancel, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return model.Decision(), nil
}

// ArtistDecider returns the interactive [tasks.DecideFunc] used when the
// build command runs with --interactive.
func ArtistDecider() tasks.DecideFunc {
	return ConfirmArtist
}
