// Package render expands replacement templates.
//
// A template is plain text that may contain the reserved placeholders
// _MATCHED_TEXT_, _REM_RESULT_ (or its older spelling _AUTO_CALC_) and
// _VAR_NAME_, plus Go text/template actions with the sprig function map:
//
//	rgba(_MATCHED_TEXT_, 0.5)
//	{{ .varName | trimPrefix "$" | upper }}
//
// The reserved placeholders are rewritten into context lookups before the
// text is parsed, so substituted values are never parsed as template syntax.
package render

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// Reserved placeholders
const (
	MatchedText = "_MATCHED_TEXT_"
	RemResult   = "_REM_RESULT_"
	AutoCalc    = "_AUTO_CALC_"
	VarName     = "_VAR_NAME_"
)

// Context keys available to template actions
const (
	KeyMatchedText = "matchedText"
	KeyRemResult   = "remResult"
	KeyVarName     = "varName"
	KeyKind        = "kind"
)

// Context holds the values placeholders expand to. Keys that are absent
// render as the empty string.
type Context map[string]string

var placeholders = strings.NewReplacer(
	MatchedText, "{{." + KeyMatchedText + "}}",
	RemResult, "{{." + KeyRemResult + "}}",
	AutoCalc, "{{." + KeyRemResult + "}}",
	VarName, "{{." + KeyVarName + "}}",
)

// Template is a compiled replacement template. It is safe for concurrent use.
type Template struct {
	source      string
	tmpl        *template.Template
	usesVarName bool
}

// Compile parses source. Errors mean the configured template is malformed.
func Compile(source string) (*Template, error) {
	tmpl, err := template.New("replacement").
		Option("missingkey=zero").
		Funcs(sprig.FuncMap()).
		Parse(placeholders.Replace(source))
	if err != nil {
		return nil, fmt.Errorf("unable to parse replacement template %q: %w", source, err)
	}

	return &Template{
		source:      source,
		tmpl:        tmpl,
		usesVarName: strings.Contains(source, VarName) || strings.Contains(source, "."+KeyVarName),
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for builtin defaults.
func MustCompile(source string) *Template {
	t, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the template text as configured.
func (t *Template) Source() string {
	return t.source
}

// UsesVarName reports whether the template expands once per variable name.
func (t *Template) UsesVarName() bool {
	return t.usesVarName
}

// Render expands the template once.
func (t *Template) Render(ctx Context) (string, error) {
	data := map[string]string(ctx)
	if data == nil {
		data = map[string]string{}
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("unable to render replacement template %q: %w", t.source, err)
	}
	return buf.String(), nil
}

// RenderForEachVariable expands a template that references the variable
// name once per name, in order; with no names it produces nothing. Any
// other template is rendered exactly once.
func (t *Template) RenderForEachVariable(names []string, ctx Context) ([]string, error) {
	if !t.usesVarName {
		out, err := t.Render(ctx)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	results := make([]string, 0, len(names))
	for _, name := range names {
		perName := maps.Clone(ctx)
		if perName == nil {
			perName = Context{}
		}
		perName[KeyVarName] = name

		out, err := t.Render(perName)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}
