package hover

import (
	"bytes"
	"fmt"
	"text/template"

	"bennypowers.dev/padls/internal/geometry"
	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// regionInfo is what the hover templates render
type regionInfo struct {
	layout.Region
	Host  string
	Cols  int
	Rows  int
	Frame *geometry.Rect
	Image *images.Info
}

// Template for region hover content
var regionHoverTemplate = template.Must(template.New("regionHover").Parse(`### {{.Kind}}{{if .Text}} ` + "`{{.Text}}`" + `{{end}}
{{if .NoMerge}}
*no-merge*
{{end}}
**Cells**: columns {{.X0}}-{{.X1}}, rows {{.Y0}}-{{.Y1}} ({{.Cols}}x{{.Rows}})
{{if .Frame}}**Frame**: ` + "`x={{.Frame.X}} y={{.Frame.Y}} {{.Frame.Width}}x{{.Frame.Height}}`" + `
{{end}}{{if .Image}}**Image**: ` + "`{{.Image.Path}}`" + ` ({{.Image.Format}}, {{.Image.Width}}x{{.Image.Height}} px)
{{end}}
*{{.Host}}*
`))

// Plaintext template for region hover content
var regionHoverPlaintextTemplate = template.Must(template.New("regionHoverPlaintext").Parse(`{{.Kind}}{{if .Text}} {{.Text}}{{end}}{{if .NoMerge}} (no-merge){{end}}
Cells: columns {{.X0}}-{{.X1}}, rows {{.Y0}}-{{.Y1}} ({{.Cols}}x{{.Rows}})
{{if .Frame}}Frame: x={{.Frame.X}} y={{.Frame.Y}} {{.Frame.Width}}x{{.Frame.Height}}
{{end}}{{if .Image}}Image: {{.Image.Path}} ({{.Image.Format}}, {{.Image.Width}}x{{.Image.Height}} px)
{{end}}`))

// renderRegionHover renders the hover content for a region in the specified format
func renderRegionHover(info regionInfo, format protocol.MarkupKind) (string, error) {
	var buf bytes.Buffer
	tmpl := regionHoverTemplate
	if format == protocol.MarkupKindPlainText {
		tmpl = regionHoverPlaintextTemplate
	}
	if err := tmpl.Execute(&buf, info); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Hover handles the textDocument/hover request
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Debug("Hover requested: %s at line %d, char %d", uri, position.Line, position.Character)

	cursor := req.CursorAt(uri, position)
	tok, i, ok := cursor.Region()
	if !ok {
		return nil, nil
	}

	l := cursor.Layout.Layout
	region := l.Region(i)
	info := regionInfo{
		Region: region,
		Host:   cursor.Layout.Host.String(),
		Cols:   region.Width(),
		Rows:   region.Height(),
	}

	grid := l.Grid()
	table, err := req.Server.GetConfig().Table(grid.Cols(), grid.Rows())
	if err != nil {
		// Bad size settings only cost the frame line
		req.AddWarning(err)
	} else {
		frame := table.Frame(region)
		info.Frame = &frame
	}

	if region.Kind == layout.Image {
		if img, err := req.Server.Images().Probe(region.Text); err == nil {
			info.Image = &img
		} else {
			log.Debug("No image info for %q: %v", region.Text, err)
		}
	}

	format := req.Server.PreferredHoverFormat()
	content, err := renderRegionHover(info, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render region hover: %w", err)
	}

	r := types.SpanRange(cursor.Doc, tok.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  format,
			Value: content,
		},
		Range: &r,
	}, nil
}
