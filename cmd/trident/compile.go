package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/driver"
	"github.com/alvesvaren/trident/internal/layout"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.tri|->",
	Short: "Compile a diagram source into laid-out geometry",
	Long:  `Compile parses, resolves and lays out a diagram source, printing the resulting geometry as JSON. Pass "-" to read from stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("layout", "", "layout algorithm when the source has no @layout directive (hierarchical|grid)")
	compileCmd.Flags().Bool("cache", false, "reuse compiled diagrams from the user cache directory")
	compileCmd.Flags().Bool("compact", false, "emit compact JSON instead of indented")
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]

	layoutFlag, err := cmd.Flags().GetString("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}

	cfg, algo, err := loadProject(path)
	if err != nil {
		return err
	}
	switch layoutFlag {
	case "":
	case string(layout.Hierarchical):
		algo = layout.Hierarchical
	case string(layout.Grid):
		algo = layout.Grid
	default:
		return fmt.Errorf("unknown layout algorithm: %s", layoutFlag)
	}

	var diagram *driver.Diagram
	if useCache {
		cache, cacheErr := driver.OpenDiskCache("trident")
		if cacheErr != nil {
			return fmt.Errorf("failed to open disk cache: %w", cacheErr)
		}
		diagram = driver.CompileCachedWith(cache, text, cfg, algo)
	} else {
		diagram = driver.CompileWithAlgo(text, cfg, algo)
	}

	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(diagram); err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}

	if diagram.Error != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
