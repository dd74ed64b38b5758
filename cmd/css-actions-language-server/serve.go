package main

import (
	"fmt"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the language server on stdio",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().Bool("stdio", true, "communicate over stdin and stdout")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		server, err := lsp.NewServer()
		if err != nil {
			return fmt.Errorf("failed to create LSP server: %w", err)
		}
		defer func() {
			if err := server.Close(); err != nil {
				log.Warn("Failed to stop file watcher: %v", err)
			}
		}()

		// Run with stdio transport (for VSCode and other editors)
		if err := server.RunStdio(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	return cmd
}
