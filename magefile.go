//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/sh"

	"github.com/pbun206/repeater/db"
)

// Precommit lists the module dependencies, checks formatting, runs the
// linter with autofix, prunes unused dependencies and runs the tests,
// stopping at the first failure.
func Precommit() error {
	if err := sh.RunV("go", "list", "-m", "all"); err != nil {
		return err
	}

	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need formatting:\n%s", out)
	}

	if err := sh.RunV("golangci-lint", "run", "--fix"); err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	return sh.RunV("go", "test", "./...")
}

// DeleteDB removes the local card database.
func DeleteDB() error {
	path, err := db.DefaultPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	fmt.Printf("Removed %s\n", path)
	return nil
}

// Create opens the capture editor on the scratch card file.
func Create() error {
	return sh.RunV("go", "run", ".", "create", "test.md")
}

// Check registers the scratch collection and prints its stats.
func Check() error {
	return sh.RunV("go", "run", ".", "check", "test.md", "test_data/", "science/")
}

// Drill reviews the cards due today in the scratch collection.
func Drill() error {
	return sh.RunV("go", "run", ".", "drill", "test.md", "test_data/", "science/")
}
