package documentsymbol

import (
	"fmt"

	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var symbolKinds = map[layout.Kind]protocol.SymbolKind{
	layout.Button:  protocol.SymbolKindEvent,
	layout.Label:   protocol.SymbolKindString,
	layout.TextBox: protocol.SymbolKindField,
	layout.Image:   protocol.SymbolKindFile,
}

// DocumentSymbol lists one symbol per layout in the document, with one
// child per region
func DocumentSymbol(req *types.RequestContext, params *protocol.DocumentSymbolParams) (any, error) {
	doc, layouts := req.Layouts(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	symbols := make([]protocol.DocumentSymbol, 0, len(layouts))
	for _, e := range layouts {
		symbols = append(symbols, layoutSymbol(doc, e))
	}
	return symbols, nil
}

func layoutSymbol(doc *documents.Document, e *parser.Embedded) protocol.DocumentSymbol {
	r := types.LayoutRange(doc, e)
	symbol := protocol.DocumentSymbol{
		Name:           layoutName(e),
		Kind:           protocol.SymbolKindNamespace,
		Range:          r,
		SelectionRange: protocol.Range{Start: r.Start, End: r.Start},
	}

	if e.Layout == nil {
		symbol.Detail = strPtr(fmt.Sprintf("%d errors", len(e.Errors)))
		return symbol
	}

	l := e.Layout
	g := l.Grid()
	symbol.Detail = strPtr(fmt.Sprintf("%dx%d, %d regions", g.Cols(), g.Rows(), l.Len()))
	symbol.Children = make([]protocol.DocumentSymbol, 0, l.Len())
	for i, region := range l.Regions() {
		symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
			Name:           regionName(region),
			Detail:         strPtr(fmt.Sprintf("%s %dx%d at (%d, %d)", region.Kind, region.Width(), region.Height(), region.X0, region.Y0)),
			Kind:           symbolKinds[region.Kind],
			Range:          types.RegionRange(doc, l, i),
			SelectionRange: types.SpanRange(doc, l.Seed(i).Span),
		})
	}
	return symbol
}

func layoutName(e *parser.Embedded) string {
	switch e.Host {
	case parser.Template:
		return e.Tag + "``"
	case parser.Script:
		return fmt.Sprintf("<script type=%q>", e.Tag)
	case parser.GridAreas:
		return e.Tag
	}
	return "layout"
}

// regionName is the region text; symbol names must not be empty
func regionName(r layout.Region) string {
	if r.Text == "" {
		return "(empty)"
	}
	return r.Text
}

func strPtr(s string) *string {
	return &s
}
