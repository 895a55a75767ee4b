// Package card parses markdown collection files into flashcards.
//
// A file holds one card per blank-line separated block. The first line of a
// block is the front of the card and the remaining lines are the back.
package card

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pbun206/repeater/file"
	"github.com/pbun206/repeater/models"
)

// Parse splits markdown content into cards. Blocks without a back side are
// still cards: the front doubles as the answer prompt for self-recall.
func Parse(content, filePath string) []models.Card {
	var cards []models.Card

	for _, block := range splitBlocks(content) {
		front, back, _ := strings.Cut(block, "\n")
		cards = append(cards, models.Card{
			Hash:     Hash(block),
			FilePath: filePath,
			Front:    strings.TrimSpace(front),
			Back:     strings.TrimSpace(back),
		})
	}

	return cards
}

// Hash returns the identity of a card block: the SHA-256 hex digest of the
// normalized block text.
func Hash(block string) string {
	sum := sha256.Sum256([]byte(normalize(block)))
	return hex.EncodeToString(sum[:])
}

// LoadCollection parses every markdown file reachable from the given paths
// and returns the unique cards keyed by hash. Duplicate blocks across files
// collapse into a single card.
func LoadCollection(paths []string) (map[string]models.Card, error) {
	mdFiles, err := file.RecursiveMarkdown(paths)
	if err != nil {
		return nil, fmt.Errorf("error finding markdown files: %w", err)
	}

	cards := make(map[string]models.Card)
	for _, mdFile := range mdFiles {
		content, err := os.ReadFile(mdFile)
		if err != nil {
			return nil, fmt.Errorf("error reading file %s: %w", mdFile, err)
		}

		for _, c := range Parse(string(content), mdFile) {
			if _, ok := cards[c.Hash]; !ok {
				cards[c.Hash] = c
			}
		}
	}

	return cards, nil
}

func splitBlocks(content string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		block := normalize(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func normalize(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
