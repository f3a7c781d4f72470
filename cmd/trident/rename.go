package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/patch"
)

var renameCmd = &cobra.Command{
	Use:   "rename [flags] <file.tri|-> <old> <new>",
	Short: "Rename a symbol everywhere it appears",
	Long:  `Rename rewrites every declaration, group header and relation endpoint that names the old symbol. Only whole identifiers match; the rest of the text is untouched.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runRename,
}

func init() {
	renameCmd.Flags().BoolP("write", "w", false, "rewrite the file in place instead of printing")
}

func runRename(cmd *cobra.Command, args []string) error {
	path, oldName, newName := args[0], args[1], args[2]

	inPlace, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}
	return writeResult(path, patch.RenameSymbol(text, oldName, newName), inPlace)
}
