package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/driver"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] <file.tri|->",
	Short: "List the symbols declared or referenced in a diagram source",
	Long:  `Symbols lists every entity and group name in the source, falling back to a line scan when the source does not parse`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "text", "output format (text|json)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	text, err := readSource(args[0])
	if err != nil {
		return err
	}
	syms := driver.Symbols(text)

	switch format {
	case "text":
		for _, s := range syms {
			fmt.Println(s)
		}
	case "json":
		if syms == nil {
			syms = []string{}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(syms); err != nil {
			return fmt.Errorf("failed to encode symbols: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
