package variables

import (
	"regexp"
	"strings"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/normalize"
	"github.com/dlclark/regexp2"
)

// declarationPattern finds "<sigil><name> : <value>" statements. The
// lookbehind drops declarations that follow a // comment marker on the same line.
var declarationPattern = regexp2.MustCompile(
	`(?<!//[^\n]*)(?<![\w$@-])(?<name>(?:\$|@|--)[A-Za-z_][\w-]*)[ \t]*:[ \t]*(?<value>[^;\n]*)`,
	regexp2.None,
)

var (
	blockCommentPattern    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommentPattern = regexp.MustCompile(`(?:^|\s)(?://|/\*).*$`)
	flagPattern            = regexp.MustCompile(`(?i)\s*!(?:default|global|important)\b`)
)

// Build scans stylesheet text for variable declarations and indexes each
// name under the canonical form of its value. Lines that do not look like
// declarations are skipped.
func Build(text string) *Index {
	return buildFrom(text, "")
}

func buildFrom(text, file string) *Index {
	idx := Empty()
	text = blankBlockComments(text)

	m, err := declarationPattern.FindStringMatch(text)
	for m != nil && err == nil {
		if e, ok := declaration(m, file); ok {
			idx.add(e)
		}
		m, err = declarationPattern.FindNextMatch(m)
	}
	if err != nil {
		log.Warn("Stopped scanning variables in %q: %v", file, err)
	}

	return idx
}

func declaration(m *regexp2.Match, file string) (Entry, bool) {
	name := m.GroupByName("name").String()
	value := cleanValue(m.GroupByName("value").String())
	if value == "" {
		return Entry{}, false
	}

	// Custom properties are referenced through var()
	if strings.HasPrefix(name, "--") {
		name = "var(" + name + ")"
	}

	return Entry{
		Name:  name,
		Value: value,
		Key:   normalize.Value(value),
		File:  file,
	}, true
}

func cleanValue(value string) string {
	value = trailingCommentPattern.ReplaceAllString(value, "")
	value = flagPattern.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}

// blankBlockComments replaces /* */ comments with spaces, keeping newlines
// so that line-based lookbehinds still see the original line structure.
func blankBlockComments(text string) string {
	return blockCommentPattern.ReplaceAllStringFunc(text, func(comment string) string {
		return strings.Map(func(r rune) rune {
			if r == '\n' {
				return r
			}
			return ' '
		}, comment)
	})
}
