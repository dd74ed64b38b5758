package documentcolor

import (
	"fmt"
	"math"

	"github.com/mazznoer/csscolorparser"
)

func channel(v float64) int {
	return int(math.Round(v * 255))
}

// formatRGB formats a color as rgb(), or rgba() when it is translucent
func formatRGB(c csscolorparser.Color) string {
	if c.A < 1 {
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(c.R), channel(c.G), channel(c.B), formatAlpha(c.A))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(c.R), channel(c.G), channel(c.B))
}

// formatHSL formats a color as hsl(), or hsla() when it is translucent
func formatHSL(c csscolorparser.Color) string {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	if c.A < 1 {
		return fmt.Sprintf("hsla(%.0f, %.0f%%, %.0f%%, %s)", h, s*100, l*100, formatAlpha(c.A))
	}
	return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", h, s*100, l*100)
}

func formatAlpha(a float64) string {
	return fmt.Sprintf("%g", math.Round(a*100)/100)
}

// rgbToHSL converts RGB to HSL, hue in degrees
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)

	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, l
}
