// Package create captures new card text in a full-screen editor and
// appends it to a markdown collection file.
package create

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbun206/repeater/file"
)

// Run validates the card path, prompts to create the file when missing,
// opens the capture editor and appends the captured text as a new card
// block. User interaction for the create prompt goes through in/out.
func Run(cardPath string, in io.Reader, out io.Writer) error {
	path, err := file.ValidateCardPath(cardPath)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		create, err := promptCreate(in, out, path)
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if !create {
			fmt.Fprintln(out, "Aborting; card not created.")
			return nil
		}
		if parent := filepath.Dir(path); parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
		}
	}

	text, saved, err := captureCardText(path)
	if err != nil {
		return fmt.Errorf("error capturing card text: %w", err)
	}

	if !saved || strings.TrimSpace(text) == "" {
		fmt.Fprintln(out, "No text captured; nothing written.")
		return nil
	}

	if err := AppendCard(path, text); err != nil {
		return fmt.Errorf("error writing card: %w", err)
	}

	fmt.Fprintf(out, "Card updated: %s\n", path)
	return nil
}

func promptCreate(in io.Reader, out io.Writer, path string) (bool, error) {
	fmt.Fprintf(out, "Card '%s' does not exist. Create it? [y/N]: ", path)

	reader := bufio.NewReader(in)
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// AppendCard appends contents as a new card block, separated from existing
// content by a single blank line. Empty contents write nothing.
func AppendCard(path, contents string) error {
	trimmed := strings.TrimRight(contents, "\n")
	if trimmed == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open card file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat card file: %w", err)
	}

	if info.Size() > 0 {
		if _, err := fmt.Fprintln(f); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
	}
	if _, err := fmt.Fprintln(f, trimmed); err != nil {
		return fmt.Errorf("failed to write card: %w", err)
	}

	return nil
}
