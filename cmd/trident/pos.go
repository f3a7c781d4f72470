package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/patch"
)

var posCmd = &cobra.Command{
	Use:   "pos",
	Short: "Edit position and size directives in a diagram source",
	Long:  `Pos applies targeted edits to @pos, @width and @height directives, leaving every other byte of the source untouched`,
}

var posSetCmd = &cobra.Command{
	Use:   "set [flags] <file.tri|-> <id>",
	Short: "Pin an entity or group at explicit coordinates",
	Args:  cobra.ExactArgs(2),
	RunE:  runPosSet,
}

var posGeometryCmd = &cobra.Command{
	Use:   "geometry [flags] <file.tri|-> <id>",
	Short: "Pin an entity's position and optionally its size",
	Args:  cobra.ExactArgs(2),
	RunE:  runPosGeometry,
}

var posInsertCmd = &cobra.Command{
	Use:   "insert [flags] <file.tri|-> <id>",
	Short: "Declare an implicit entity with a pinned position",
	Args:  cobra.ExactArgs(2),
	RunE:  runPosInsert,
}

var posUnsetCmd = &cobra.Command{
	Use:   "unset [flags] <file.tri|-> <id>",
	Short: "Remove an entity's @pos directive",
	Args:  cobra.ExactArgs(2),
	RunE:  runPosUnset,
}

var posUnsetAllCmd = &cobra.Command{
	Use:   "unset-all [flags] <file.tri|->",
	Short: "Remove every @pos directive in the source",
	Args:  cobra.ExactArgs(1),
	RunE:  runPosUnsetAll,
}

func init() {
	posCmd.AddCommand(posSetCmd)
	posCmd.AddCommand(posGeometryCmd)
	posCmd.AddCommand(posInsertCmd)
	posCmd.AddCommand(posUnsetCmd)
	posCmd.AddCommand(posUnsetAllCmd)

	for _, c := range []*cobra.Command{posSetCmd, posGeometryCmd, posInsertCmd, posUnsetCmd, posUnsetAllCmd} {
		c.Flags().BoolP("write", "w", false, "rewrite the file in place instead of printing")
	}
	for _, c := range []*cobra.Command{posSetCmd, posGeometryCmd, posInsertCmd} {
		c.Flags().IntP("x", "x", 0, "x coordinate")
		c.Flags().IntP("y", "y", 0, "y coordinate")
	}
	posSetCmd.Flags().Bool("group", false, "target a group instead of an entity")
	posSetCmd.Flags().Int("group-index", 0, "ordinal of the anonymous group to target (with --group and empty id)")
	posGeometryCmd.Flags().Int("width", patch.Unset, "explicit width, omit to leave unset")
	posGeometryCmd.Flags().Int("height", patch.Unset, "explicit height, omit to leave unset")
}

func posFlags(cmd *cobra.Command) (x, y int, inPlace bool, err error) {
	if x, err = cmd.Flags().GetInt("x"); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get x flag: %w", err)
	}
	if y, err = cmd.Flags().GetInt("y"); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get y flag: %w", err)
	}
	if inPlace, err = cmd.Flags().GetBool("write"); err != nil {
		return 0, 0, false, fmt.Errorf("failed to get write flag: %w", err)
	}
	return x, y, inPlace, nil
}

func runPosSet(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	x, y, inPlace, err := posFlags(cmd)
	if err != nil {
		return err
	}
	isGroup, err := cmd.Flags().GetBool("group")
	if err != nil {
		return fmt.Errorf("failed to get group flag: %w", err)
	}
	groupIndex, err := cmd.Flags().GetInt("group-index")
	if err != nil {
		return fmt.Errorf("failed to get group-index flag: %w", err)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}
	var out string
	if isGroup {
		out = patch.UpdateGroupPos(text, id, groupIndex, x, y)
	} else {
		out = patch.UpdateClassPos(text, id, x, y)
	}
	return writeResult(path, out, inPlace)
}

func runPosGeometry(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	x, y, inPlace, err := posFlags(cmd)
	if err != nil {
		return err
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	height, err := cmd.Flags().GetInt("height")
	if err != nil {
		return fmt.Errorf("failed to get height flag: %w", err)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}
	return writeResult(path, patch.UpdateClassGeometry(text, id, x, y, width, height), inPlace)
}

func runPosInsert(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	x, y, inPlace, err := posFlags(cmd)
	if err != nil {
		return err
	}
	text, err := readSource(path)
	if err != nil {
		return err
	}
	return writeResult(path, patch.InsertImplicitNode(text, id, x, y), inPlace)
}

func runPosUnset(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	inPlace, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	text, err := readSource(path)
	if err != nil {
		return err
	}
	return writeResult(path, patch.RemoveClassPos(text, id), inPlace)
}

func runPosUnsetAll(cmd *cobra.Command, args []string) error {
	path := args[0]
	inPlace, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	text, err := readSource(path)
	if err != nil {
		return err
	}
	return writeResult(path, patch.RemoveAllPos(text), inPlace)
}
