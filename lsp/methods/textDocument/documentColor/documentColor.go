package documentcolor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor handles the textDocument/documentColor request. Every
// button or label whose text is a CSS color is reported.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	doc, layouts := req.Layouts(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	colors := []protocol.ColorInformation{}
	for _, e := range layouts {
		if e.Layout == nil || !e.Editable() {
			continue
		}
		for _, tok := range e.Layout.Grid().Tokens() {
			if tok.Kind != layout.Button && tok.Kind != layout.Label {
				continue
			}
			color, ok := parseColor(tok.Text)
			if !ok {
				continue
			}

			start := tok.Span.Start + strings.Index(tok.Source, tok.Text)
			colors = append(colors, protocol.ColorInformation{
				Range: doc.Text().Range(tok.Span.Line, start, start+len(tok.Text)),
				Color: color,
			})
		}
	}

	log.Debug("Found %d colors in %s", len(colors), params.TextDocument.URI)
	return colors, nil
}

// ColorPresentation handles the textDocument/colorPresentation request.
// Functional notations use the space-separated syntax because a comma
// would split the cell.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	c := csscolorparser.Color{
		R: float64(params.Color.Red),
		G: float64(params.Color.Green),
		B: float64(params.Color.Blue),
		A: float64(params.Color.Alpha),
	}

	labels := []string{c.HexString(), rgbString(c), hslString(c)}
	presentations := make([]protocol.ColorPresentation, 0, len(labels))
	for _, label := range labels {
		presentations = append(presentations, protocol.ColorPresentation{
			Label:    label,
			TextEdit: &protocol.TextEdit{Range: params.Range, NewText: label},
		})
	}
	return presentations, nil
}

// parseColor parses a cell text as a CSS color
func parseColor(value string) (protocol.Color, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return protocol.Color{}, false
	}

	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return protocol.Color{}, false
	}

	return protocol.Color{
		Red:   protocol.Decimal(parsed.R),
		Green: protocol.Decimal(parsed.G),
		Blue:  protocol.Decimal(parsed.B),
		Alpha: protocol.Decimal(parsed.A),
	}, true
}

func rgbString(c csscolorparser.Color) string {
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("rgb(%d %d %d%s)", r, g, b, alphaSuffix(c.A))
}

func hslString(c csscolorparser.Color) string {
	h, s, l := toHSL(c.R, c.G, c.B)
	return fmt.Sprintf("hsl(%s %s%% %s%%%s)", formatFloat(h), formatFloat(s*100), formatFloat(l*100), alphaSuffix(c.A))
}

func alphaSuffix(a float64) string {
	if a >= 1 {
		return ""
	}
	return " / " + formatFloat(a)
}

// formatFloat rounds to two decimals and drops trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// toHSL converts RGB in [0, 1] to a hue in degrees and saturation and
// lightness in [0, 1]
func toHSL(r, g, b float64) (h, s, l float64) {
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
