package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/arrow"
)

var arrowsCmd = &cobra.Command{
	Use:   "arrows [flags]",
	Short: "List every arrow token the parser accepts",
	RunE:  runArrows,
}

func init() {
	arrowsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runArrows(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	entries := arrow.Registry()
	switch format {
	case "pretty":
		for _, e := range entries {
			fmt.Printf("%-5s %-18s %s\n", e.Token, e.Canonical, e.Detail)
		}
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode arrows: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
