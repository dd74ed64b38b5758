package normalize

import (
	"slices"
	"strings"

	"bennypowers.dev/cssa/internal/collections"
)

// namedColors are all CSS named color keywords, including transparent
var namedColors = collections.NewSet(
	"transparent", "black", "white", "red", "green",
	"blue", "yellow", "cyan", "magenta", "gray",
	"grey", "maroon", "purple", "fuchsia", "lime",
	"olive", "navy", "teal", "aqua", "orange",
	"aliceblue", "antiquewhite", "aquamarine", "azure",
	"beige", "bisque", "blanchedalmond", "blueviolet",
	"brown", "burlywood", "cadetblue", "chartreuse",
	"chocolate", "coral", "cornflowerblue", "cornsilk",
	"crimson", "darkblue", "darkcyan", "darkgoldenrod",
	"darkgray", "darkgrey", "darkgreen", "darkkhaki",
	"darkmagenta", "darkolivegreen", "darkorange", "darkorchid",
	"darkred", "darksalmon", "darkseagreen", "darkslateblue",
	"darkslategray", "darkslategrey", "darkturquoise", "darkviolet",
	"deeppink", "deepskyblue", "dimgray", "dimgrey",
	"dodgerblue", "firebrick", "floralwhite", "forestgreen",
	"gainsboro", "ghostwhite", "gold", "goldenrod",
	"greenyellow", "honeydew", "hotpink", "indianred",
	"indigo", "ivory", "khaki", "lavender",
	"lavenderblush", "lawngreen", "lemonchiffon", "lightblue",
	"lightcoral", "lightcyan", "lightgoldenrodyellow", "lightgray",
	"lightgrey", "lightgreen", "lightpink", "lightsalmon",
	"lightseagreen", "lightskyblue", "lightslategray", "lightslategrey",
	"lightsteelblue", "lightyellow", "limegreen", "linen",
	"mediumaquamarine", "mediumblue", "mediumorchid", "mediumpurple",
	"mediumseagreen", "mediumslateblue", "mediumspringgreen", "mediumturquoise",
	"mediumvioletred", "midnightblue", "mintcream", "mistyrose",
	"moccasin", "navajowhite", "oldlace", "olivedrab",
	"orangered", "orchid", "palegoldenrod", "palegreen",
	"paleturquoise", "palevioletred", "papayawhip", "peachpuff",
	"peru", "pink", "plum", "powderblue",
	"rebeccapurple", "rosybrown", "royalblue", "saddlebrown",
	"salmon", "sandybrown", "seagreen", "seashell",
	"sienna", "silver", "skyblue", "slateblue",
	"slategray", "slategrey", "snow", "springgreen",
	"steelblue", "tan", "thistle", "tomato",
	"turquoise", "violet", "wheat", "whitesmoke",
	"yellowgreen",
)

// IsNamedColor reports whether value is a CSS named color keyword.
func IsNamedColor(value string) bool {
	return namedColors.Has(strings.ToLower(strings.TrimSpace(value)))
}

// NamedColors returns every named color keyword, longest first so that
// regex alternations prefer "darkred" over "red".
func NamedColors() []string {
	names := namedColors.Members()
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return names
}
