package render_test

import (
	"testing"

	"bennypowers.dev/cssa/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	ctx := render.Context{
		render.KeyMatchedText: "red",
		render.KeyRemResult:   "2rem",
		render.KeyKind:        "color",
	}

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"plain text", "inherit", "inherit"},
		{"matched text", "rgba(_MATCHED_TEXT_, 0.5)", "rgba(red, 0.5)"},
		{"rem result", "_REM_RESULT_", "2rem"},
		{"legacy auto calc", "_AUTO_CALC_", "2rem"},
		{"generic action", "{{ .matchedText }}", "red"},
		{"sprig function", "{{ .matchedText | upper }}", "RED"},
		{"unknown key renders empty", "[{{ .nope }}]", "[]"},
		{"unset placeholder renders empty", "_VAR_NAME_!", "!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := render.Compile(tt.source)
			require.NoError(t, err)

			out, err := tmpl.Render(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderDoesNotReparseValues(t *testing.T) {
	tmpl, err := render.Compile("_MATCHED_TEXT_")
	require.NoError(t, err)

	out, err := tmpl.Render(render.Context{render.KeyMatchedText: "{{ .kind }}"})
	require.NoError(t, err)
	assert.Equal(t, "{{ .kind }}", out)
}

func TestRenderNilContext(t *testing.T) {
	tmpl := render.MustCompile("a_MATCHED_TEXT_b")

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
}

func TestCompileError(t *testing.T) {
	_, err := render.Compile("{{ .matchedText ")
	assert.Error(t, err)

	assert.Panics(t, func() { render.MustCompile("{{ end }}") })
}

func TestRenderForEachVariable(t *testing.T) {
	ctx := render.Context{render.KeyMatchedText: "#fff"}

	t.Run("one output per name in order", func(t *testing.T) {
		tmpl := render.MustCompile("_VAR_NAME_")
		require.True(t, tmpl.UsesVarName())

		out, err := tmpl.RenderForEachVariable([]string{"$white", "$bg"}, ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"$white", "$bg"}, out)
	})

	t.Run("no names means no outputs", func(t *testing.T) {
		tmpl := render.MustCompile("_VAR_NAME_ fallback")

		out, err := tmpl.RenderForEachVariable(nil, ctx)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("template action referencing the name also expands", func(t *testing.T) {
		tmpl := render.MustCompile(`{{ .varName | trimPrefix "$" }}`)
		require.True(t, tmpl.UsesVarName())

		out, err := tmpl.RenderForEachVariable([]string{"$white"}, ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"white"}, out)
	})

	t.Run("independent template renders once", func(t *testing.T) {
		tmpl := render.MustCompile("rgba(_MATCHED_TEXT_, 0.5)")
		require.False(t, tmpl.UsesVarName())

		out, err := tmpl.RenderForEachVariable(nil, ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"rgba(#fff, 0.5)"}, out)

		out, err = tmpl.RenderForEachVariable([]string{"$a", "$b"}, ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"rgba(#fff, 0.5)"}, out)
	})

	t.Run("does not mutate the caller context", func(t *testing.T) {
		tmpl := render.MustCompile("_VAR_NAME_")
		_, err := tmpl.RenderForEachVariable([]string{"$a"}, ctx)
		require.NoError(t, err)
		_, has := ctx[render.KeyVarName]
		assert.False(t, has)
	})

	t.Run("source is preserved", func(t *testing.T) {
		assert.Equal(t, "_VAR_NAME_ fallback", render.MustCompile("_VAR_NAME_ fallback").Source())
	})
}
