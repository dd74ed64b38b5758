package variables_test

import (
	"testing"

	"bennypowers.dev/cssa/internal/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_AliasesShareAKey(t *testing.T) {
	idx := variables.Build("$a: #fff;\n$b: #FFF;\n// $c: #000;")

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, []string{"#ffffffff"}, idx.Keys())
	assert.ElementsMatch(t, []string{"$a", "$b"}, idx.Names("#ffffffff"))
	assert.Empty(t, idx.Names("#000000ff"), "commented declaration must not be indexed")
}

func TestBuild_Sigils(t *testing.T) {
	text := `
$primary: #ff0000;
@gap: 8px;
:root {
  --accent: rgb(255, 0, 0);
  --space-lg: 16px 24px;
}
`
	idx := variables.Build(text)

	assert.Equal(t, []string{"$primary", "var(--accent)"}, idx.Names("#ff0000ff"))
	assert.Equal(t, []string{"@gap"}, idx.Names("8px"))
	assert.Equal(t, []string{"var(--space-lg)"}, idx.Names("16px 24px"))
	assert.Empty(t, idx.Names("16px"), "multi-token values are keyed as a whole")
}

func TestBuild_EquivalentColorSyntaxes(t *testing.T) {
	idx := variables.Build("$named: red;\n$hex: #f00;\n$fn: hsl(0, 100%, 50%);\n")
	assert.Equal(t, []string{"$named", "$hex", "$fn"}, idx.Names("#ff0000ff"))
	assert.Equal(t, []string{"$named", "$hex", "$fn"}, idx.Lookup("rgb(255, 0, 0)"))
}

func TestBuild_Comments(t *testing.T) {
	text := `
$kept: 4px; // trailing note
// $line-comment: 4px;
/* $block: 4px; */
/*
$multi: 4px;
*/
$also-kept: 4px // sass style comment
`
	idx := variables.Build(text)
	assert.Equal(t, []string{"$kept", "$also-kept"}, idx.Names("4px"))
}

func TestBuild_FlagsAreStripped(t *testing.T) {
	idx := variables.Build("$base: 16px !default;\n$brand: #336699 !global;")
	assert.Equal(t, []string{"$base"}, idx.Names("16px"))
	assert.Equal(t, []string{"$brand"}, idx.Names("#336699ff"))
}

func TestBuild_RawFallback(t *testing.T) {
	idx := variables.Build("$font-stack: Helvetica, sans-serif;\n$weight: bold;")

	assert.Equal(t, []string{"$font-stack"}, idx.Names("Helvetica, sans-serif"))
	assert.Equal(t, []string{"$weight"}, idx.Names("bold"))
}

func TestBuild_SkipsNonDeclarations(t *testing.T) {
	text := `
@import "colors";
@media (max-width: 10px) { .a { color: red; } }
.b { margin: 10px; }
$empty: ;
@include shadow;
`
	idx := variables.Build(text)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Entries())
}

func TestBuild_DuplicateNamesCollapse(t *testing.T) {
	idx := variables.Build("$gap: 8px;\n$gap: 8px;")
	assert.Equal(t, []string{"$gap"}, idx.Names("8px"))
	assert.Len(t, idx.Entries(), 2)
}

func TestEntries(t *testing.T) {
	idx := variables.Build("$primary: #FF0000; // brand\n@gap: 8px;")

	entries := idx.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, variables.Entry{Name: "$primary", Value: "#FF0000", Key: "#ff0000ff"}, entries[0])
	assert.Equal(t, variables.Entry{Name: "@gap", Value: "8px", Key: "8px"}, entries[1])
}

func TestMerge(t *testing.T) {
	a := variables.Build("$a: 8px;")
	b := variables.Build("$b: 8px;\n$c: red;")

	merged := a.Merge(b)
	assert.Equal(t, []string{"$a", "$b"}, merged.Names("8px"))
	assert.Equal(t, []string{"$c"}, merged.Names("#ff0000ff"))

	// Sources are untouched
	assert.Equal(t, []string{"$a"}, a.Names("8px"))
}

func TestNilIndex(t *testing.T) {
	var idx *variables.Index
	assert.Nil(t, idx.Names("8px"))
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Keys())
	assert.Nil(t, idx.Entries())
}
