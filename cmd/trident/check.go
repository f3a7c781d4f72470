package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/diag"
	"github.com/alvesvaren/trident/internal/diagfmt"
	"github.com/alvesvaren/trident/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.tri|->",
	Short: "Run diagnostics on a diagram source",
	Long:  `Check parses and resolves a diagram source and reports syntax and symbol problems without computing a layout`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}
	displayPath := path
	if path == "-" {
		displayPath = "stdin.tri"
	} else if fullPath {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			displayPath = abs
		}
	}

	bag, fs := driver.Analyze(displayPath, text)
	if quiet {
		bag = errorsOnly(bag)
	}

	pathMode := diagfmt.PathModeBasename
	if fullPath {
		pathMode = diagfmt.PathModeAuto
	}

	switch format {
	case "pretty":
		color, colorErr := useColor(cmd, os.Stdout)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
			Color:     color,
			PathMode:  pathMode,
			ShowNotes: !quiet,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics,
			IncludeNotes:     !quiet,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// errorsOnly drops informational diagnostics (implicit-node notices) for
// --quiet output.
func errorsOnly(bag *diag.Bag) *diag.Bag {
	filtered := diag.NewBag(int(bag.Cap()))
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			filtered.Add(d)
		}
	}
	return filtered
}
