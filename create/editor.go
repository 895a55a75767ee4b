package create

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	editorTitleStyle = lipgloss.NewStyle().Bold(true)
	editorHelpStyle  = lipgloss.NewStyle().Faint(true)
)

// captureCardText opens the full-screen editor for the given card path.
// The second return value is false when the user cancelled.
func captureCardText(cardPath string) (string, bool, error) {
	program := tea.NewProgram(newEditorModel(cardPath), tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return "", false, err
	}

	m := finalModel.(editorModel)
	return m.textarea.Value(), m.saved, nil
}

type editorModel struct {
	textarea textarea.Model
	cardPath string
	saved    bool
}

func newEditorModel(cardPath string) editorModel {
	ta := textarea.New()
	ta.Placeholder = "First line is the front, the rest is the back."
	ta.CharLimit = 0
	ta.Focus()

	return editorModel{textarea: ta, cardPath: cardPath}
}

func (m editorModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.textarea.SetWidth(msg.Width - 2)
		m.textarea.SetHeight(msg.Height - 4)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			m.saved = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m editorModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		editorTitleStyle.Render(" "+m.cardPath+" "),
		m.textarea.View(),
		editorHelpStyle.Render("ctrl+s save * esc cancel * enter newline"),
	)
}
