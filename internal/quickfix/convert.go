package quickfix

import (
	"math"
	"strconv"
	"strings"

	"bennypowers.dev/cssa/internal/normalize"
)

// DefaultRootFontSize is the px size of 1rem when none is configured.
const DefaultRootFontSize = 16

// ConvertToRem rewrites every px token of a size fragment as rem relative
// to rootFontSize. Other tokens, including the spelling of non-px sizes,
// are kept as they are. The result is empty when text holds no size token.
func ConvertToRem(text string, rootFontSize float64) string {
	if _, ok := normalize.Size(text); !ok {
		return ""
	}
	if rootFontSize <= 0 {
		rootFontSize = DefaultRootFontSize
	}

	tokens := strings.Fields(text)
	for i, token := range tokens {
		if value, ok := pxValue(token); ok {
			tokens[i] = formatRem(value/rootFontSize) + "rem"
		}
	}
	return strings.Join(tokens, " ")
}

// pxValue returns the number of a whole px token such as "12px" or ".5PX".
func pxValue(token string) (float64, bool) {
	if len(token) <= 2 || !strings.EqualFold(token[len(token)-2:], "px") {
		return 0, false
	}
	value, err := strconv.ParseFloat(token[:len(token)-2], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// formatRem prints v rounded half up to four decimals, dropping trailing
// zeros and a dangling decimal point.
func formatRem(v float64) string {
	s := strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
