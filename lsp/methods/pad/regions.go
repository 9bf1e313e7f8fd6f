// Package pad implements the pad/* requests, which are not part of LSP
package pad

import (
	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/geometry"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// MethodRegions lists the merged regions of every layout in a document
const MethodRegions = "pad/regions"

// RegionsParams are the pad/regions request parameters
type RegionsParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// RegionsResult is the pad/regions response
type RegionsResult struct {
	Layouts []LayoutInfo `json:"layouts"`
}

// LayoutInfo describes one layout in the document. A layout with errors
// has no regions.
type LayoutInfo struct {
	Host    string         `json:"host"`
	Tag     string         `json:"tag"`
	Range   protocol.Range `json:"range"`
	Cols    int            `json:"cols"`
	Rows    int            `json:"rows"`
	Regions []RegionInfo   `json:"regions"`
	Errors  []ErrorInfo    `json:"errors,omitempty"`
}

// RegionInfo is a merged region in grid coordinates, with its source range
// and its pixel frame under the configured cell sizes
type RegionInfo struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Kind    string         `json:"kind"`
	Text    string         `json:"text"`
	NoMerge bool           `json:"noMerge,omitempty"`
	Range   protocol.Range `json:"range"`
	Frame   *geometry.Rect `json:"frame,omitempty"`
}

// ErrorInfo is a layout error
type ErrorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Range   protocol.Range `json:"range"`
}

// Regions handles the pad/regions request
func Regions(req *types.RequestContext, params *RegionsParams) (*RegionsResult, error) {
	doc, layouts := req.Layouts(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	result := &RegionsResult{Layouts: make([]LayoutInfo, 0, len(layouts))}
	for _, e := range layouts {
		result.Layouts = append(result.Layouts, describeLayout(req, doc, e))
	}
	return result, nil
}

func describeLayout(req *types.RequestContext, doc *documents.Document, e *parser.Embedded) LayoutInfo {
	info := LayoutInfo{
		Host:    e.Host.String(),
		Tag:     e.Tag,
		Range:   types.LayoutRange(doc, e),
		Regions: []RegionInfo{},
	}

	if e.Layout == nil {
		for _, err := range e.Errors {
			info.Errors = append(info.Errors, ErrorInfo{
				Code:    err.Kind.String(),
				Message: err.Error(),
				Range:   types.SpanRange(doc, err.Span),
			})
		}
		return info
	}

	l := e.Layout
	info.Cols, info.Rows = l.Grid().Cols(), l.Grid().Rows()

	table, err := req.Server.GetConfig().Table(info.Cols, info.Rows)
	if err != nil {
		req.AddWarning(err)
	}

	for i, r := range l.Regions() {
		region := RegionInfo{
			X:       r.X0,
			Y:       r.Y0,
			Width:   r.Width(),
			Height:  r.Height(),
			Kind:    r.Kind.String(),
			Text:    r.Text,
			NoMerge: r.NoMerge,
			Range:   types.RegionRange(doc, l, i),
		}
		if err == nil {
			frame := table.Frame(r)
			region.Frame = &frame
		}
		info.Regions = append(info.Regions, region)
	}
	return info
}
