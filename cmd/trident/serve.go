package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alvesvaren/trident/internal/driver"
	"github.com/alvesvaren/trident/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the compile pipeline over HTTP",
	Long:  `Serve starts a stateless HTTP server exposing compile, symbols, rename and patch operations for editor hosts`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8135", "listen address")
	serveCmd.Flags().Bool("cache", false, "reuse compiled diagrams from the user cache directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "trident",
	})

	var cache *driver.DiskCache
	if useCache {
		cache, err = driver.OpenDiskCache("trident")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	return server.New(logger, cache).ListenAndServe(addr)
}
