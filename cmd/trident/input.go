package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alvesvaren/trident/internal/layout"
	"github.com/alvesvaren/trident/internal/project"
)

// readSource loads a diagram source. "-" reads stdin.
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeResult prints the patched source to stdout, or rewrites the input
// file when inPlace is set. In-place writing needs a real file path.
func writeResult(path, text string, inPlace bool) error {
	if !inPlace {
		_, err := fmt.Print(text)
		return err
	}
	if path == "-" {
		return fmt.Errorf("--write requires a file path, not stdin")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// loadProject resolves the manifest for the source file's directory and
// returns the effective layout configuration and default algorithm.
func loadProject(path string) (layout.Config, layout.Algo, error) {
	dir := "."
	if path != "-" {
		dir = filepath.Dir(path)
	}
	m, err := project.LoadFrom(dir)
	if err != nil {
		return layout.Config{}, "", err
	}
	return m.Config(), m.Algorithm(), nil
}
