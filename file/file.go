package file

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// IsMarkdown reports whether the path has a .md extension.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// ValidateCardPath checks that a path names a markdown file that a card
// could be written to. The file itself does not have to exist yet.
func ValidateCardPath(path string) (string, error) {
	cardPath := strings.TrimSpace(path)
	if cardPath == "" {
		return "", fmt.Errorf("card path cannot be empty")
	}

	if info, err := os.Stat(cardPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("card path cannot be a directory: %s", cardPath)
	}

	if !IsMarkdown(cardPath) {
		return "", fmt.Errorf("card path must be a markdown file: %s", cardPath)
	}

	return cardPath, nil
}

// RecursiveMarkdown collects markdown files from the given paths. A path may
// be a markdown file or a directory that is walked recursively. Hidden files
// and directories are skipped.
func RecursiveMarkdown(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			if !IsMarkdown(path) {
				return nil, fmt.Errorf("not a markdown file: %s", path)
			}
			files = append(files, path)
			continue
		}

		err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
			if err != nil {
				// Log the error but continue walking
				log.Printf("Error accessing path %s: %v", filePath, err)
				return nil
			}

			if strings.HasPrefix(info.Name(), ".") && filePath != path {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				return nil
			}

			if IsMarkdown(filePath) {
				files = append(files, filePath)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}
	}

	return files, nil
}
