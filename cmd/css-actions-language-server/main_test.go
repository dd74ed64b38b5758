package main

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/version"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestTargets(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/project/styles/_vars.scss":        "$primary: #1e90ff;\n$gap: 16px;\n@accent: dodgerblue;",
		"/project/.config/css-actions.yaml": "variablesFile: styles/_vars.scss\n",
	})

	t.Run("lines from arguments", func(t *testing.T) {
		opts := &targetsOptions{root: "/project", fs: fs}
		var out bytes.Buffer
		require.NoError(t, opts.run(strings.NewReader(""), &out, []string{"  padding: 16px;", "  color: #1E90FF;"}))

		assert.Equal(t, strings.Join([]string{
			"Replace [ 16px ] with 1rem",
			"Replace [ 16px ] with $gap",
			"Replace [ #1E90FF ] with $primary",
			"Replace [ #1E90FF ] with @accent",
		}, "\n")+"\n", out.String())
	})

	t.Run("lines from stdin", func(t *testing.T) {
		opts := &targetsOptions{root: "/project", fs: fs}
		var out bytes.Buffer
		require.NoError(t, opts.run(strings.NewReader("margin: 8px 24px;\nwidth: 100%;\n"), &out, nil))
		assert.Equal(t, "Replace [ 8px 24px ] with 0.5rem 1.5rem\n", out.String())
	})

	t.Run("flags override the project configuration", func(t *testing.T) {
		opts := &targetsOptions{root: "/project", fs: fs, variables: []string{}, rootFontSize: 10}
		var out bytes.Buffer
		require.NoError(t, opts.run(strings.NewReader(""), &out, []string{"padding: 16px;", "color: #1e90ff;"}))
		assert.Equal(t, "Replace [ 16px ] with 1.6rem\n", out.String())
	})

	t.Run("invalid root font size", func(t *testing.T) {
		opts := &targetsOptions{root: "/project", fs: fs, rootFontSize: -2}
		err := opts.run(strings.NewReader(""), &bytes.Buffer{}, []string{"padding: 16px;"})
		assert.Error(t, err)
	})
}

func TestRootCommand(t *testing.T) {
	level := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(level) })

	t.Run("version", func(t *testing.T) {
		cmd := newRootCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"version"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, version.GetFullVersion()+"\n", out.String())
	})

	t.Run("log level flag", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--log-level", "debug", "version"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, log.LevelDebug, log.GetLevel())
	})

	t.Run("unknown log level", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--log-level", "loud", "version"})
		assert.Error(t, cmd.Execute())
	})

	t.Run("subcommands", func(t *testing.T) {
		cmd := newRootCommand()
		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		assert.Subset(t, names, []string{"serve", "targets", "version"})
	})
}
