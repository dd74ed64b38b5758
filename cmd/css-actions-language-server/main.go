package main

import (
	"context"
	"fmt"
	"os"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "css-actions-language-server",
		Short:         "Quick fixes that replace CSS sizes and colors with rem values and variables",
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		// Editors start the server without a subcommand
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", log.GetLevel().String(), "log level: debug, info, warn or error")
	// Accepted for clients that pass the transport explicitly; stdio is the only transport
	root.Flags().Bool("stdio", true, "communicate over stdin and stdout")

	root.AddCommand(serve)
	root.AddCommand(newTargetsCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		},
	})

	return root
}
