package drill

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	frontStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	backStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Faint(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// ReviewFunc persists one graded review and returns the new state.
type ReviewFunc func(models.Card, fsrs.Grade) (fsrs.ReviewState, error)

// RunSession drives the full-screen review loop and returns how many cards
// were graded before the session ended.
func RunSession(cards []models.Card, review ReviewFunc) (int, error) {
	program := tea.NewProgram(newSessionModel(cards, review), tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return 0, err
	}
	m := finalModel.(sessionModel)
	if m.err != nil {
		return m.reviewed, m.err
	}
	return m.reviewed, nil
}

type sessionModel struct {
	cards    []models.Card
	review   ReviewFunc
	index    int
	revealed bool
	reviewed int
	status   string
	err      error
	width    int
}

func newSessionModel(cards []models.Card, review ReviewFunc) sessionModel {
	return sessionModel{cards: cards, review: review}
}

func (m sessionModel) Init() tea.Cmd {
	return nil
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			if !m.revealed {
				m.revealed = true
			}
		case "1", "a":
			return m.grade(fsrs.GradeAgain)
		case "2", "h":
			return m.grade(fsrs.GradeHard)
		case "3", "g":
			return m.grade(fsrs.GradeGood)
		case "4", "e":
			return m.grade(fsrs.GradeEasy)
		}
	}
	return m, nil
}

func (m sessionModel) grade(g fsrs.Grade) (tea.Model, tea.Cmd) {
	if !m.revealed {
		return m, nil
	}

	state, err := m.review(m.cards[m.index], g)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	m.reviewed++
	m.status = fmt.Sprintf("next review in %dd", state.IntervalDays)
	m.revealed = false
	m.index++
	if m.index >= len(m.cards) {
		return m, tea.Quit
	}
	return m, nil
}

func (m sessionModel) View() string {
	if m.index >= len(m.cards) {
		return ""
	}

	c := m.cards[m.index]
	boxWidth := m.width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}

	title := titleStyle.Render(fmt.Sprintf("Card %d/%d", m.index+1, len(m.cards)))
	sections := []string{title, frontStyle.Width(boxWidth).Render(c.Front)}

	help := "space reveal * q quit"
	if m.revealed {
		back := c.Back
		if back == "" {
			back = "(no back side)"
		}
		sections = append(sections, backStyle.Width(boxWidth).Render(back))
		help = "1 again * 2 hard * 3 good * 4 easy * q quit"
	}

	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	if m.err != nil {
		sections = append(sections, errStyle.Render(m.err.Error()))
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
