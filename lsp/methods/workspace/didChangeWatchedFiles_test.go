package workspace

import (
	"testing"

	"bennypowers.dev/cssa/lsp/testutil"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func watchedContext(t *testing.T) *testutil.MockServerContext {
	t.Helper()
	ctx := testutil.NewMockServerContext()
	ctx.SetRootPath("/workspace")
	config := ctx.GetConfig()
	config.VariablesFile = types.StringList{"styles/_vars.scss", "tokens/**/*.less"}
	ctx.SetConfig(config)
	return ctx
}

func TestDidChangeWatchedFiles(t *testing.T) {
	t.Run("variables file change rebuilds the index", func(t *testing.T) {
		ctx := watchedContext(t)
		require.NoError(t, ctx.WriteFile("/workspace/styles/_vars.scss", "$gap: 8px;"))
		require.NoError(t, ctx.WriteFile("/workspace/tokens/a.less", "@ink: #000;"))

		err := DidChangeWatchedFiles(types.NewRequestContext(ctx, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///workspace/styles/_vars.scss", Type: protocol.FileChangeTypeChanged},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, ctx.ReloadEngineCalled)
		assert.False(t, ctx.LoadProjectConfigCalled)
		assert.Equal(t, []string{"$gap"}, ctx.Engine().Index().Lookup("8px"))
	})

	t.Run("glob match and deletion", func(t *testing.T) {
		ctx := watchedContext(t)

		err := DidChangeWatchedFiles(types.NewRequestContext(ctx, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///workspace/tokens/deep/b.less", Type: protocol.FileChangeTypeDeleted},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, ctx.ReloadEngineCalled)
	})

	t.Run("several changes reload once", func(t *testing.T) {
		ctx := watchedContext(t)

		err := DidChangeWatchedFiles(types.NewRequestContext(ctx, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///workspace/styles/_vars.scss", Type: protocol.FileChangeTypeChanged},
				{URI: "file:///workspace/tokens/a.less", Type: protocol.FileChangeTypeCreated},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, ctx.ReloadEngineCalled)
	})

	t.Run("unrelated file is ignored", func(t *testing.T) {
		ctx := watchedContext(t)

		err := DidChangeWatchedFiles(types.NewRequestContext(ctx, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///workspace/styles/main.scss", Type: protocol.FileChangeTypeChanged},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, ctx.ReloadEngineCalled)
	})

	t.Run("project config change reloads configuration", func(t *testing.T) {
		ctx := watchedContext(t)

		err := DidChangeWatchedFiles(types.NewRequestContext(ctx, nil), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///workspace/package.json", Type: protocol.FileChangeTypeChanged},
			},
		})
		require.NoError(t, err)
		assert.True(t, ctx.LoadProjectConfigCalled)
		assert.Equal(t, 1, ctx.ReloadEngineCalled)
		assert.True(t, ctx.RegisterWatchersCalled)
	})
}
