package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/internal/variables"
	"bennypowers.dev/cssa/lsp"
	codeaction "bennypowers.dev/cssa/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type targetsOptions struct {
	root         string
	variables    []string
	rootFontSize float64
	fs           afero.Fs
}

func newTargetsCommand() *cobra.Command {
	opts := &targetsOptions{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "targets [line...]",
		Short: "Print the quick fixes offered for each line",
		Long: "Print the quick fixes offered for each line, using the configuration\n" +
			"found under --root. Lines are read from stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", ".", "workspace root")
	cmd.Flags().StringSliceVar(&opts.variables, "variables", nil, "variables files or globs, overriding the project configuration")
	cmd.Flags().Float64Var(&opts.rootFontSize, "root-font-size", 0, "px size of 1rem, overriding the project configuration")

	return cmd
}

func (o *targetsOptions) engine() (*quickfix.Engine, error) {
	root, err := filepath.Abs(o.root)
	if err != nil {
		return nil, err
	}

	project, err := lsp.ReadProjectConfig(o.fs, root)
	if err != nil {
		return nil, err
	}
	cfg := types.DefaultConfig().Merge(project).Merge(types.ServerConfig{
		VariablesFile: o.variables,
		RootFontSize:  o.rootFontSize,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	idx := variables.Empty()
	if files := cfg.VariablesFiles(); len(files) > 0 {
		var loadErr error
		idx, _, loadErr = variables.Load(o.fs, root, files)
		for _, err := range multierr.Errors(loadErr) {
			log.Warn("%v", err)
		}
	}

	return quickfix.NewEngine(cfg.EngineOptions(), idx)
}

func (o *targetsOptions) run(in io.Reader, out io.Writer, lines []string) error {
	engine, err := o.engine()
	if engine == nil {
		return err
	}
	if err != nil {
		// The engine still serves the kinds that compiled
		log.Warn("%v", err)
	}

	emit := func(line string) {
		candidates, err := engine.Actions(line)
		if err != nil {
			log.Warn("%v", err)
		}
		for _, c := range candidates {
			for _, target := range c.Targets {
				fmt.Fprintln(out, codeaction.Title(c.Match.Text, target))
			}
		}
	}

	if len(lines) > 0 {
		for _, line := range lines {
			emit(line)
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	return scanner.Err()
}
