// Package normalize turns raw size and color text into canonical keys.
//
// Two raw values denote the same variable-worthy value when their canonical
// keys are identical strings. Sizes keep their tokens and units
// ("10px 2rem"); colors become lower-case #rrggbbaa.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

var (
	sizeTokenPattern = regexp.MustCompile(`(?i)-?(?:\d*\.)?\d+(?:px|rem|em)\b`)
	bareHexPattern   = regexp.MustCompile(`(?i)^[0-9a-f]+$`)
)

// Size returns the space-joined, lower-cased size tokens found in raw.
// The second result is false when raw holds no size token.
func Size(raw string) (string, bool) {
	tokens := sizeTokenPattern.FindAllString(raw, -1)
	if len(tokens) == 0 {
		return "", false
	}
	return strings.ToLower(strings.Join(tokens, " ")), true
}

// Color parses raw as a CSS color and returns it as lower-case #rrggbbaa.
// Hex literals need their leading '#'.
func Color(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || bareHexPattern.MatchString(raw) {
		return "", false
	}

	c, err := csscolorparser.Parse(raw)
	if err != nil {
		return "", false
	}
	return Hex8(c), true
}

// Hex8 formats a parsed color as lower-case #rrggbbaa.
func Hex8(c csscolorparser.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Value applies the index policy: size first, then color, then the trimmed
// raw text so that unrecognized declarations are still indexed.
func Value(raw string) string {
	if key, ok := Size(raw); ok {
		return key
	}
	if key, ok := Color(raw); ok {
		return key
	}
	return strings.TrimSpace(raw)
}
