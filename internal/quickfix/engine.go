package quickfix

import (
	"fmt"
	"strings"

	"bennypowers.dev/cssa/internal/normalize"
	"bennypowers.dev/cssa/internal/render"
	"bennypowers.dev/cssa/internal/variables"
	"github.com/dlclark/regexp2"
	"go.uber.org/multierr"
)

// DefaultSizePattern matches a run of whitespace-separated px, rem or em
// lengths that is not the tail of a function argument list such as calc(10px)
// nor part of an identifier such as the class .mt-10px.
const DefaultSizePattern = `(?<![\w.-])-?(?:\d*\.)?\d+(?:px|rem|em)(?:\s+-?(?:\d*\.)?\d+(?:px|rem|em))*(?![^(]*\))`

// DefaultColorPattern matches hex literals, rgb[a]() and hsl[a]() calls and
// CSS named colors.
var DefaultColorPattern = `#(?:[0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{3,4})(?![\w-])` +
	`|(?:rgba?|hsla?)\([^()]*\)` +
	`|(?<![\w$@#-])(?:` + strings.Join(normalize.NamedColors(), "|") + `)(?![\w-])`

// Default replacement templates.
var (
	DefaultSizeTemplates  = []string{render.RemResult, render.VarName}
	DefaultColorTemplates = []string{render.VarName}
)

// Options configure an Engine. Empty patterns and nil template lists fall
// back to the defaults; an empty, non-nil template list disables a kind.
type Options struct {
	SizePattern    string
	ColorPattern   string
	RootFontSize   float64
	SizeTemplates  []string
	ColorTemplates []string
}

// Candidate is a matched fragment and its replacements, the first of which
// is preferred.
type Candidate struct {
	Kind    Kind
	Match   Match
	Targets []string
}

// Engine is an immutable snapshot of the options, the variable index and
// the providers built from them. A configuration or variables change builds
// a new Engine rather than modifying one.
type Engine struct {
	options   Options
	index     *variables.Index
	providers []Provider
}

// NewEngine builds the providers for opts. A provider whose pattern or
// templates fail to compile is left out and its error returned; the engine
// is usable either way.
func NewEngine(opts Options, idx *variables.Index) (*Engine, error) {
	if idx == nil {
		idx = variables.Empty()
	}
	if opts.SizePattern == "" {
		opts.SizePattern = DefaultSizePattern
	}
	if opts.ColorPattern == "" {
		opts.ColorPattern = DefaultColorPattern
	}
	if opts.RootFontSize <= 0 {
		opts.RootFontSize = DefaultRootFontSize
	}
	if opts.SizeTemplates == nil {
		opts.SizeTemplates = DefaultSizeTemplates
	}
	if opts.ColorTemplates == nil {
		opts.ColorTemplates = DefaultColorTemplates
	}

	e := &Engine{options: opts, index: idx}
	var errs error

	size, err := newProvider(KindSize, opts.SizePattern, opts.SizeTemplates, idx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		e.providers = append(e.providers, &sizeProvider{provider: size, rootFontSize: opts.RootFontSize})
	}

	color, err := newProvider(KindColor, opts.ColorPattern, opts.ColorTemplates, idx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		e.providers = append(e.providers, &colorProvider{provider: color})
	}

	return e, errs
}

// Options returns the options the engine was built with, defaults applied.
func (e *Engine) Options() Options {
	return e.options
}

// Index returns the variable index.
func (e *Engine) Index() *variables.Index {
	return e.index
}

// Provider returns the registered provider of the given kind.
func (e *Engine) Provider(kind Kind) (Provider, bool) {
	for _, p := range e.providers {
		if p.Kind() == kind {
			return p, true
		}
	}
	return nil, false
}

// Actions runs every registered provider over line. Fragments without any
// replacement are omitted. Render failures are returned alongside the
// candidates that did render.
func (e *Engine) Actions(line string) ([]Candidate, error) {
	var (
		candidates []Candidate
		errs       error
	)
	for _, p := range e.providers {
		m, ok := p.MatchFragment(line)
		if !ok {
			continue
		}
		targets, err := p.ReplacementTargets(m.Text)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s fragment %q: %w", p.Kind(), m.Text, err))
		}
		if len(targets) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{Kind: p.Kind(), Match: m, Targets: targets})
	}
	return candidates, errs
}

// Fragments returns every fragment of the given kind on line.
func (e *Engine) Fragments(kind Kind, line string) []Match {
	p, ok := e.Provider(kind)
	if !ok {
		return nil
	}
	return FindAllMatches(line, patternOf(p))
}

func patternOf(p Provider) *regexp2.Regexp {
	switch p := p.(type) {
	case *sizeProvider:
		return p.pattern
	case *colorProvider:
		return p.pattern
	}
	return nil
}
