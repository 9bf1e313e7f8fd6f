package types

import (
	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SpanRange converts a layout span to an LSP range in the document
func SpanRange(doc *documents.Document, span layout.Span) protocol.Range {
	return doc.Text().Range(span.Line, span.Start, span.End)
}

// LayoutRange covers an embedded layout from its first to its last character
func LayoutRange(doc *documents.Document, e *parser.Embedded) protocol.Range {
	text := doc.Text()
	return protocol.Range{
		Start: text.Position(e.Start.Line, e.Start.Start),
		End:   text.Position(e.End.Line, e.End.Start),
	}
}

// RegionRange runs from the start of a region's top-left cell to the end
// of its bottom-right cell
func RegionRange(doc *documents.Document, l *layout.Layout, i int) protocol.Range {
	cells := l.Cells(i)
	first, last := cells[0].Span, cells[len(cells)-1].Span
	text := doc.Text()
	return protocol.Range{
		Start: text.Position(first.Line, first.Start),
		End:   text.Position(last.Line, last.End),
	}
}

// CellLocations returns the location of every cell of region i, row-major
func CellLocations(doc *documents.Document, l *layout.Layout, i int) []protocol.Location {
	cells := l.Cells(i)
	locations := make([]protocol.Location, len(cells))
	for j, cell := range cells {
		locations[j] = protocol.Location{URI: doc.URI(), Range: SpanRange(doc, cell.Span)}
	}
	return locations
}
