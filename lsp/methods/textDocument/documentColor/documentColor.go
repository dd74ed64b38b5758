package documentcolor

import (
	"fmt"
	"strings"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/normalize"
	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor handles the textDocument/documentColor request. Every
// fragment the color matcher finds is reported with its parsed color.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := params.TextDocument.URI

	log.Debug("DocumentColor requested: %s", uri)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	if !doc.InLanguages(req.Server.GetConfig().Languages) {
		return nil, nil
	}

	engine := req.Server.Engine()
	colors := []protocol.ColorInformation{}

	for i := range doc.LineCount() {
		line, _ := doc.Line(i)
		for _, m := range engine.Fragments(quickfix.KindColor, line) {
			color, err := parseColor(m.Text)
			if err != nil {
				// Custom color patterns may match text that isn't a color
				req.AddWarning(fmt.Errorf("line %d: %w", i+1, err))
				continue
			}

			colors = append(colors, protocol.ColorInformation{
				Range: protocol.Range{
					Start: protocol.Position{
						Line:      protocol.UInteger(i),
						Character: protocol.UInteger(m.Character),
					},
					End: protocol.Position{
						Line:      protocol.UInteger(i),
						Character: protocol.UInteger(m.Character + m.Length),
					},
				},
				Color: *color,
			})
		}
	}

	log.Debug("Found %d colors", len(colors))

	return colors, nil
}

// ColorPresentation handles the textDocument/colorPresentation request.
// Returns the variable names whose value is the requested color, then the
// color's hex, rgb() and hsl() forms.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := params.TextDocument.URI
	color := params.Color

	log.Debug("ColorPresentation requested: %s", uri)

	// Convert protocol.Color to csscolorparser.Color for comparison
	requested := csscolorparser.Color{
		R: float64(color.Red),
		G: float64(color.Green),
		B: float64(color.Blue),
		A: float64(color.Alpha),
	}

	var presentations []protocol.ColorPresentation
	for _, name := range req.Server.Engine().Index().Names(normalize.Hex8(requested)) {
		presentations = append(presentations, presentation(name, params.Range))
	}
	for _, label := range []string{requested.HexString(), formatRGB(requested), formatHSL(requested)} {
		presentations = append(presentations, presentation(label, params.Range))
	}

	log.Debug("Found %d color presentations", len(presentations))

	return presentations, nil
}

func presentation(label string, r protocol.Range) protocol.ColorPresentation {
	return protocol.ColorPresentation{
		Label: label,
		TextEdit: &protocol.TextEdit{
			Range:   r,
			NewText: label,
		},
	}
}

// parseColor parses a color string (hex, rgb, rgba, hsl, hsla, etc.) and returns a protocol.Color
func parseColor(value string) (*protocol.Color, error) {
	value = strings.TrimSpace(value)

	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("unsupported color format: %s", value)
	}

	// csscolorparser.Color has R, G, B, A fields as float64 values (0-1)
	return &protocol.Color{
		Red:   protocol.Decimal(parsed.R),
		Green: protocol.Decimal(parsed.G),
		Blue:  protocol.Decimal(parsed.B),
		Alpha: protocol.Decimal(parsed.A),
	}, nil
}
