package workspace

import (
	"testing"
	"time"

	"bennypowers.dev/cssa/lsp/testutil"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDidChangeConfiguration(t *testing.T) {
	t.Run("applies settings and rebuilds the engine", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetRootPath("/workspace")
		require.NoError(t, ctx.WriteFile("/workspace/_vars.scss", "$primary: #ff0000;"))

		req := types.NewRequestContext(ctx, nil)
		err := DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
			Settings: map[string]any{
				"cssActions": map[string]any{
					"variablesFile":       "_vars.scss",
					"colorReplaceOptions": []any{"_VAR_NAME_"},
				},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"_vars.scss"}, ctx.GetConfig().VariablesFiles())
		assert.Equal(t, 1, ctx.ReloadEngineCalled)
		assert.True(t, ctx.RegisterWatchersCalled)
		assert.Equal(t, []string{"$primary"}, ctx.Engine().Index().Lookup("red"))
	})

	t.Run("invalid settings keep the previous configuration", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		before := ctx.GetConfig()

		rec := &testutil.ClientRecorder{}
		req := types.NewRequestContext(ctx, rec.Context("workspace/didChangeConfiguration"))
		err := DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
			Settings: map[string]any{"cssActions": map[string]any{"rootFontSize": "big"}},
		})
		require.NoError(t, err)

		assert.Equal(t, before, ctx.GetConfig())
		assert.Equal(t, 0, ctx.ReloadEngineCalled)
		require.Eventually(t, func() bool {
			return len(rec.NotificationsFor(protocol.ServerWindowShowMessage)) == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("bad pattern is shown to the user", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()

		rec := &testutil.ClientRecorder{}
		req := types.NewRequestContext(ctx, rec.Context("workspace/didChangeConfiguration"))
		err := DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
			Settings: map[string]any{"cssActions": map[string]any{"pxSearchRegex": "("}},
		})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return len(rec.NotificationsFor(protocol.ServerWindowShowMessage)) == 1
		}, time.Second, 5*time.Millisecond)
	})
}
