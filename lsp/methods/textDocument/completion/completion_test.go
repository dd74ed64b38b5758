package completion

import (
	"testing"

	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/internal/variables"
	"bennypowers.dev/cssa/lsp/testutil"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///workspace/app.scss"

const vars = `$primary: #ff0000;
$danger: red;
$gap: 8px;
--accent: #00f;
$gap: 8px;`

func setup(t *testing.T, languageID, content string) *testutil.MockServerContext {
	t.Helper()
	ctx := testutil.NewMockServerContext()
	require.NoError(t, ctx.DocumentManager().DidOpen(uri, languageID, 1, content))
	engine, err := quickfix.NewEngine(quickfix.Options{}, variables.Build(vars))
	require.NoError(t, err)
	ctx.SetEngine(engine)
	return ctx
}

func complete(t *testing.T, ctx *testutil.MockServerContext, line, character protocol.UInteger) []protocol.CompletionItem {
	t.Helper()
	result, err := Completion(types.NewRequestContext(ctx, nil), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)
	return list.Items
}

func labels(items []protocol.CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func TestCompletion(t *testing.T) {
	t.Run("offers every variable once", func(t *testing.T) {
		ctx := setup(t, "scss", ".a { color:  }")

		items := complete(t, ctx, 0, 12)
		assert.Equal(t, []string{"$primary", "$danger", "$gap", "var(--accent)"}, labels(items))
	})

	t.Run("item details", func(t *testing.T) {
		ctx := setup(t, "scss", ".a { color:  }")

		items := complete(t, ctx, 0, 12)
		require.Len(t, items, 4)

		primary := items[0]
		assert.Equal(t, protocol.CompletionItemKindColor, *primary.Kind)
		assert.Equal(t, "#ff0000", *primary.Detail)
		assert.Equal(t, "$primary #ff0000", *primary.FilterText)

		gap := items[2]
		assert.Equal(t, protocol.CompletionItemKindVariable, *gap.Kind)
		assert.Equal(t, "8px", *gap.Detail)
	})

	t.Run("filters by typed name", func(t *testing.T) {
		ctx := setup(t, "scss", ".a { color: $pri }")

		items := complete(t, ctx, 0, 16)
		require.Equal(t, []string{"$primary"}, labels(items))

		edit, ok := items[0].TextEdit.(protocol.TextEdit)
		require.True(t, ok)
		assert.Equal(t, "$primary", edit.NewText)
		assert.Equal(t, protocol.UInteger(12), edit.Range.Start.Character)
		assert.Equal(t, protocol.UInteger(16), edit.Range.End.Character)
	})

	t.Run("filters by typed value", func(t *testing.T) {
		ctx := setup(t, "scss", "color: #ff00")

		items := complete(t, ctx, 0, 12)
		assert.Equal(t, []string{"$primary"}, labels(items))
	})

	t.Run("custom property names match without dashes", func(t *testing.T) {
		ctx := setup(t, "css", "color: --acc")

		items := complete(t, ctx, 0, 12)
		assert.Equal(t, []string{"var(--accent)"}, labels(items))
	})

	t.Run("inside a var() reference the whole call is replaced", func(t *testing.T) {
		tests := []struct {
			name string
			line string
			end  protocol.UInteger
		}{
			{"unclosed", ".a { color: var(--acc }", 21},
			{"closed", ".a { color: var(--acc) }", 22},
			{"upper-case", ".a { color: VAR(--acc }", 21},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctx := setup(t, "css", tt.line)

				items := complete(t, ctx, 0, 21)
				require.Equal(t, []string{"var(--accent)"}, labels(items))

				edit, ok := items[0].TextEdit.(protocol.TextEdit)
				require.True(t, ok)
				assert.Equal(t, "var(--accent)", edit.NewText)
				assert.Equal(t, protocol.UInteger(12), edit.Range.Start.Character)
				assert.Equal(t, tt.end, edit.Range.End.Character)
			})
		}
	})

	t.Run("language not configured", func(t *testing.T) {
		ctx := setup(t, "markdown", "$")
		assert.Nil(t, complete(t, ctx, 0, 1))
	})

	t.Run("unknown document", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		assert.Nil(t, complete(t, ctx, 0, 0))
	})
}

func TestCompletionResolve(t *testing.T) {
	ctx := testutil.NewMockServerContext()

	t.Run("renders documentation", func(t *testing.T) {
		item := &protocol.CompletionItem{
			Label: "$danger",
			Data: map[string]any{
				"name":  "$danger",
				"value": "red",
				"key":   "#ff0000ff",
				"file":  "/workspace/_vars.scss",
			},
		}

		resolved, err := CompletionResolve(types.NewRequestContext(ctx, nil), item)
		require.NoError(t, err)

		doc, ok := resolved.Documentation.(protocol.MarkupContent)
		require.True(t, ok)
		assert.Equal(t, protocol.MarkupKindMarkdown, doc.Kind)
		assert.Contains(t, doc.Value, "# $danger")
		assert.Contains(t, doc.Value, "**Value**: `red`")
		assert.Contains(t, doc.Value, "**Canonical**: `#ff0000ff`")
		assert.Contains(t, doc.Value, "*Defined in: /workspace/_vars.scss*")
	})

	t.Run("canonical form omitted when equal", func(t *testing.T) {
		item := &protocol.CompletionItem{
			Label: "$gap",
			Data:  map[string]any{"name": "$gap", "value": "8px", "key": "8px"},
		}

		resolved, err := CompletionResolve(types.NewRequestContext(ctx, nil), item)
		require.NoError(t, err)

		doc := resolved.Documentation.(protocol.MarkupContent)
		assert.NotContains(t, doc.Value, "Canonical")
		assert.NotContains(t, doc.Value, "Defined in")
	})

	t.Run("item without data", func(t *testing.T) {
		item := &protocol.CompletionItem{Label: "$x"}
		resolved, err := CompletionResolve(types.NewRequestContext(ctx, nil), item)
		require.NoError(t, err)
		assert.Nil(t, resolved.Documentation)
	})
}
