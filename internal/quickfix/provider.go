package quickfix

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/cssa/internal/normalize"
	"bennypowers.dev/cssa/internal/render"
	"bennypowers.dev/cssa/internal/variables"
	"github.com/dlclark/regexp2"
	"go.uber.org/multierr"
)

// Kind selects a provider variant.
type Kind int

const (
	KindSize Kind = iota
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindSize:
		return "size"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Provider finds one kind of fragment and produces its replacements.
type Provider interface {
	Kind() Kind
	// MatchFragment returns the first fragment of this kind on line.
	MatchFragment(line string) (Match, bool)
	// ReplacementTargets renders every configured template for a matched
	// fragment, in configuration order. Templates that fail to render are
	// reported in the error; the others still contribute.
	ReplacementTargets(text string) ([]string, error)
}

// groupRefPattern finds regex group references such as $1, $& or ${name}
var groupRefPattern = regexp.MustCompile(`\$(?:\d+|&|\{\w+\})`)

// provider holds what both variants share.
type provider struct {
	kind      Kind
	pattern   *regexp2.Regexp
	templates []*render.Template
	index     *variables.Index
}

func newProvider(kind Kind, expr string, sources []string, idx *variables.Index) (provider, error) {
	p := provider{kind: kind, index: idx}

	re, err := CompilePattern(expr)
	if err != nil {
		return p, fmt.Errorf("invalid %s search pattern %q: %w", kind, expr, err)
	}
	p.pattern = re

	for _, src := range sources {
		tmpl, err := render.Compile(src)
		if err != nil {
			return p, fmt.Errorf("invalid %s replacement: %w", kind, err)
		}
		p.templates = append(p.templates, tmpl)
	}

	return p, nil
}

func (p *provider) Kind() Kind {
	return p.kind
}

func (p *provider) MatchFragment(line string) (Match, bool) {
	return FindMatch(line, p.pattern)
}

// expand renders all templates in order against ctx and names.
func (p *provider) expand(text string, names []string, ctx render.Context) ([]string, error) {
	var (
		targets []string
		errs    error
	)
	for _, tmpl := range p.templates {
		tmpl, err := p.substituteGroups(tmpl, text)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out, err := tmpl.RenderForEachVariable(names, ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		targets = append(targets, out...)
	}
	return targets, errs
}

// substituteGroups applies the fragment's regex group references ($1, $&)
// to the template text, replacing the pattern's match within text. Templates
// without group references are returned unchanged.
func (p *provider) substituteGroups(tmpl *render.Template, text string) (*render.Template, error) {
	src := tmpl.Source()
	if !groupRefPattern.MatchString(src) {
		return tmpl, nil
	}

	m, err := p.pattern.FindStringMatch(text)
	if err != nil {
		return nil, fmt.Errorf("unable to match %q for %s replacement: %w", text, p.kind, err)
	}
	if m == nil {
		return tmpl, nil
	}

	replaced, err := p.pattern.Replace(text, src, -1, 1)
	if err != nil {
		return nil, fmt.Errorf("unable to substitute groups in %q: %w", src, err)
	}
	return render.Compile(replaced)
}

type sizeProvider struct {
	provider
	rootFontSize float64
}

// ReplacementTargets offers the rem conversion and the variables declared
// with the same size.
func (p *sizeProvider) ReplacementTargets(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	var names []string
	if key, ok := normalize.Size(text); ok {
		names = p.index.Names(key)
	}

	ctx := render.Context{
		render.KeyKind:        p.kind.String(),
		render.KeyMatchedText: text,
		render.KeyRemResult:   ConvertToRem(text, p.rootFontSize),
	}
	return p.expand(text, names, ctx)
}

type colorProvider struct {
	provider
}

// ReplacementTargets offers the variables declared with the same color.
// Unparseable colors simply have no variables.
func (p *colorProvider) ReplacementTargets(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	var names []string
	if key, ok := normalize.Color(text); ok {
		names = p.index.Names(key)
	}

	ctx := render.Context{
		render.KeyKind:        p.kind.String(),
		render.KeyMatchedText: text,
	}
	return p.expand(text, names, ctx)
}
