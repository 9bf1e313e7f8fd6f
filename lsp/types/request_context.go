package types

import (
	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RequestContext contains all request-scoped data for an LSP method call.
// It wraps both the server-wide context and the GLSP protocol context,
// and provides storage for request-scoped warnings.
type RequestContext struct {
	Server   ServerContext // Server-wide context (documents, images, config)
	GLSP     *glsp.Context // GLSP protocol context (Notify, Call methods)
	warnings []error       // Request-scoped warnings (collected during handler execution)
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning adds a non-fatal warning to this request.
// Warnings are logged by middleware after successful handler completion.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns all warnings collected during this request.
// Returns nil if no warnings were added.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// HasWarnings returns true if any warnings were collected
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}

// Layouts returns the document and its layouts, or nil when the document is not open
func (r *RequestContext) Layouts(uri string) (*documents.Document, []*parser.Embedded) {
	doc := r.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}
	return doc, Layouts(r.Server, doc)
}

// LayoutAt returns the layout containing a document line and byte column
func (r *RequestContext) LayoutAt(uri string, line, col int) (*documents.Document, *parser.Embedded) {
	doc := r.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}
	return doc, doc.LayoutAt(LanguageOf(r.Server, doc), r.Server.GetConfig().ParserOptions(), line, col)
}

// Cursor is a resolved LSP position: the document, the line and byte
// column it names, and the layout there if any
type Cursor struct {
	Doc    *documents.Document
	Line   int
	Col    int
	Layout *parser.Embedded
}

// CursorAt resolves an LSP position. It returns nil when the document is
// not open; Layout is nil when the position is outside every layout.
func (r *RequestContext) CursorAt(uri string, pos protocol.Position) *Cursor {
	doc := r.Server.Document(uri)
	if doc == nil {
		return nil
	}
	line, col := doc.Text().Locate(pos)
	_, embedded := r.LayoutAt(uri, line, col)
	return &Cursor{Doc: doc, Line: line, Col: col, Layout: embedded}
}

// Region returns the token under the cursor and the index of its region
func (c *Cursor) Region() (layout.Token, int, bool) {
	if c == nil || c.Layout == nil {
		return layout.Token{}, -1, false
	}
	return c.Layout.RegionAt(c.Line, c.Col)
}
