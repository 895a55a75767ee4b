package card

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty file", content: "", expected: 0},
		{name: "whitespace only", content: "\n\n   \n", expected: 0},
		{name: "single card", content: "What is entropy?\nA measure of disorder.", expected: 1},
		{name: "two cards", content: "Q1\nA1\n\nQ2\nA2", expected: 2},
		{name: "multiple blank separators", content: "Q1\nA1\n\n\n\nQ2\nA2\n", expected: 2},
		{name: "front only card", content: "Recite the first law of thermodynamics", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards := Parse(tc.content, "test.md")
			assert.Len(t, cards, tc.expected)
		})
	}
}

func TestParseFrontAndBack(t *testing.T) {
	cards := Parse("What is inertia?\nResistance to change in motion.\nFirst described by Newton.", "science/physics.md")
	require.Len(t, cards, 1)

	assert.Equal(t, "What is inertia?", cards[0].Front)
	assert.Equal(t, "Resistance to change in motion.\nFirst described by Newton.", cards[0].Back)
	assert.Equal(t, "science/physics.md", cards[0].FilePath)
	assert.Len(t, cards[0].Hash, 64)
}

func TestHashIsStableUnderTrailingWhitespace(t *testing.T) {
	a := Hash("Q1\nA1")
	b := Hash("Q1  \nA1\t\n")
	c := Hash("Q1\nA2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseEditedCardGetsNewHash(t *testing.T) {
	before := Parse("What is inertia?\nResistance to motion change.", "a.md")
	after := Parse("What is inertia?\nResistance to any change in motion.", "a.md")

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0].Hash, after[0].Hash)
}

func TestLoadCollection(t *testing.T) {
	tempDir := t.TempDir()

	fileA := filepath.Join(tempDir, "a.md")
	require.NoError(t, os.WriteFile(fileA, []byte("Q1\nA1\n\nQ2\nA2"), 0o644))

	subDir := filepath.Join(tempDir, "science")
	require.NoError(t, os.MkdirAll(subDir, 0o755))
	fileB := filepath.Join(subDir, "b.md")
	// Q2/A2 is duplicated across files and must register once.
	require.NoError(t, os.WriteFile(fileB, []byte("Q2\nA2\n\nQ3\nA3"), 0o644))

	cards, err := LoadCollection([]string{tempDir})
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	for hash, c := range cards {
		assert.Equal(t, hash, c.Hash)
		assert.NotEmpty(t, c.Front)
	}
}

func TestLoadCollectionMissingPath(t *testing.T) {
	_, err := LoadCollection([]string{"/no/such/dir"})
	assert.Error(t, err)
}
