package drill

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbun206/repeater/db"
	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/models"
)

func TestSelectDue(t *testing.T) {
	collection := map[string]models.Card{
		"n1": {Hash: "n1", Front: "new 1"},
		"n2": {Hash: "n2", Front: "new 2"},
		"r1": {Hash: "r1", Front: "reviewed 1"},
		"r2": {Hash: "r2", Front: "reviewed 2"},
	}

	due := []db.DueCard{
		{Hash: "n1", ReviewCount: 0},
		{Hash: "r1", ReviewCount: 3},
		{Hash: "n2", ReviewCount: 0},
		{Hash: "stale", ReviewCount: 1},
		{Hash: "r2", ReviewCount: 1},
	}

	testCases := []struct {
		name         string
		cardLimit    int
		newCardLimit int
		expected     []string
	}{
		{name: "no limits", cardLimit: 0, newCardLimit: 0, expected: []string{"n1", "r1", "n2", "r2"}},
		{name: "card limit", cardLimit: 2, newCardLimit: 0, expected: []string{"n1", "r1"}},
		{name: "new card limit", cardLimit: 0, newCardLimit: 1, expected: []string{"n1", "r1", "r2"}},
		{name: "both limits", cardLimit: 3, newCardLimit: 1, expected: []string{"n1", "r1", "r2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			selected := SelectDue(due, collection, tc.cardLimit, tc.newCardLimit)

			var hashes []string
			for _, c := range selected {
				hashes = append(hashes, c.Hash)
			}
			assert.Equal(t, tc.expected, hashes)
		})
	}
}

func TestSelectDueSkipsCardsMissingFromCollection(t *testing.T) {
	due := []db.DueCard{{Hash: "gone", ReviewCount: 2}}
	selected := SelectDue(due, map[string]models.Card{}, 0, 0)
	assert.Empty(t, selected)
}

func TestRegisterAllCards(t *testing.T) {
	tempDir := t.TempDir()
	mdPath := filepath.Join(tempDir, "test.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("Q1\nA1\n\nQ2\nA2"), 0o644))

	conn, err := db.InitDB(filepath.Join(tempDir, "cards.db"))
	require.NoError(t, err)
	defer conn.Close()

	collection, err := RegisterAllCards(conn, []string{mdPath})
	require.NoError(t, err)
	assert.Len(t, collection, 2)

	var count int64
	err = conn.QueryRow("SELECT COUNT(*) FROM cards").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// A second registration of the same collection changes nothing.
	collection, err = RegisterAllCards(conn, []string{mdPath})
	require.NoError(t, err)
	assert.Len(t, collection, 2)

	err = conn.QueryRow("SELECT COUNT(*) FROM cards").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestReview(t *testing.T) {
	tempDir := t.TempDir()
	conn, err := db.InitDB(filepath.Join(tempDir, "cards.db"))
	require.NoError(t, err)
	defer conn.Close()

	c := models.Card{Hash: "hash-1", Front: "Q", Back: "A"}
	require.NoError(t, db.AddCard(conn, c.Hash))

	params := fsrs.DefaultParams()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := Review(conn, params, c, fsrs.GradeGood, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ReviewCount)
	assert.GreaterOrEqual(t, first.IntervalDays, 1)

	stored, err := db.GetCardPerformance(conn, c.Hash)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.Stability, stored.Stability)

	second, err := Review(conn, params, c, fsrs.GradeGood, first.DueDate)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ReviewCount)
	assert.Greater(t, second.Stability, first.Stability)
}

func TestReviewUnregisteredCard(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = Review(conn, fsrs.DefaultParams(), models.Card{Hash: "missing"}, fsrs.GradeGood, time.Now().UTC())
	assert.Error(t, err)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSessionModelGrading(t *testing.T) {
	cards := []models.Card{
		{Hash: "a", Front: "Q1", Back: "A1"},
		{Hash: "b", Front: "Q2", Back: "A2"},
	}

	var graded []fsrs.Grade
	m := newSessionModel(cards, func(c models.Card, g fsrs.Grade) (fsrs.ReviewState, error) {
		graded = append(graded, g)
		return fsrs.ReviewState{IntervalDays: 3}, nil
	})

	// Grading before reveal is ignored.
	next, _ := m.Update(keyMsg("3"))
	m = next.(sessionModel)
	assert.Empty(t, graded)
	assert.Equal(t, 0, m.index)

	next, _ = m.Update(keyMsg(" "))
	m = next.(sessionModel)
	assert.True(t, m.revealed)

	next, _ = m.Update(keyMsg("3"))
	m = next.(sessionModel)
	assert.Equal(t, []fsrs.Grade{fsrs.GradeGood}, graded)
	assert.Equal(t, 1, m.index)
	assert.False(t, m.revealed)
	assert.Equal(t, 1, m.reviewed)
	assert.Contains(t, m.status, "3d")

	next, _ = m.Update(keyMsg("enter"))
	m = next.(sessionModel)
	next, cmd := m.Update(keyMsg("1"))
	m = next.(sessionModel)
	assert.Equal(t, 2, m.reviewed)
	assert.NotNil(t, cmd, "session must quit after the last card")
}
