// Package quickfix finds replaceable fragments on a line of stylesheet text
// and generates the ordered replacement candidates for them.
package quickfix

import (
	"strings"
	"time"
	"unicode"

	"bennypowers.dev/cssa/internal/position"
	"github.com/dlclark/regexp2"
)

// Match is a fragment found on a single line.
type Match struct {
	// Text is the matched fragment with surrounding whitespace trimmed
	Text string
	// Start and End are byte offsets into the line
	Start int
	End   int
	// Character and Length are in UTF-16 code units, as LSP positions are
	Character int
	Length    int
}

// MatchTimeout bounds a single match attempt. A pattern that runs longer
// finds nothing on that line.
const MatchTimeout = 100 * time.Millisecond

// CompilePattern compiles a fragment pattern. Patterns are always matched
// case-insensitively and may use look-around.
func CompilePattern(expr string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

// FindMatch returns the first match of re on line. The cursor column plays
// no part: any line that re matches yields its first fragment. A match that
// times out counts as none.
func FindMatch(line string, re *regexp2.Regexp) (Match, bool) {
	if re == nil {
		return Match{}, false
	}
	m, err := re.FindStringMatch(line)
	if err != nil || m == nil {
		return Match{}, false
	}
	return toMatch(line, m)
}

// FindAllMatches returns every non-overlapping match of re on line.
func FindAllMatches(line string, re *regexp2.Regexp) []Match {
	if re == nil {
		return nil
	}
	var matches []Match
	m, err := re.FindStringMatch(line)
	for m != nil && err == nil {
		if match, ok := toMatch(line, m); ok {
			matches = append(matches, match)
		}
		m, err = re.FindNextMatch(m)
	}
	return matches
}

// toMatch converts a regexp2 match, whose offsets count runes, into byte
// and UTF-16 offsets of the trimmed fragment.
func toMatch(line string, m *regexp2.Match) (Match, bool) {
	raw := m.String()
	text := strings.TrimSpace(raw)
	if text == "" {
		return Match{}, false
	}

	start := runeToByteOffset(line, m.Index)
	start += len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	end := start + len(text)

	return Match{
		Text:      text,
		Start:     start,
		End:       end,
		Character: position.ByteOffsetToUTF16(line, start),
		Length:    position.StringLengthUTF16(text),
	}, true
}

func runeToByteOffset(s string, runeIndex int) int {
	i := 0
	for offset := range s {
		if i == runeIndex {
			return offset
		}
		i++
	}
	return len(s)
}
