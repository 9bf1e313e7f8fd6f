package codeaction

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toggleData is carried by toggle actions from CodeAction to CodeActionResolve
type toggleData struct {
	URI   string         `json:"uri"`
	Range protocol.Range `json:"range"`
}

// CodeAction handles the textDocument/codeAction request.
// Quick fixes repair layout errors; the no-merge toggle is resolved lazily.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	doc, layouts := req.Layouts(uri)
	if doc == nil {
		return nil, nil
	}

	actions := []protocol.CodeAction{}
	for _, e := range layouts {
		if !e.Editable() || !RangesTouch(params.Range, types.LayoutRange(doc, e)) {
			continue
		}

		for _, err := range e.Errors {
			r := types.SpanRange(doc, err.Span)
			if !RangesTouch(params.Range, r) {
				continue
			}
			diags := matchingDiagnostics(params.Context.Diagnostics, r, err.Kind)
			if action := CreateFixAction(doc, uri, err, diags); action != nil {
				actions = append(actions, *action)
			}
		}

		if cells := cellsInRange(doc, e, params.Range); len(cells) > 0 {
			actions = append(actions, CreateToggleNoMergeAction(uri, params.Range, cells))
		}
	}

	log.Debug("Returning %d code actions for %s", len(actions), uri)
	return actions, nil
}

// CodeActionResolve computes the edit of a no-merge toggle action
func CodeActionResolve(req *types.RequestContext, action *protocol.CodeAction) (*protocol.CodeAction, error) {
	if action.Edit != nil || action.Data == nil {
		return action, nil
	}

	raw, err := json.Marshal(action.Data)
	if err != nil {
		return action, nil
	}
	var data toggleData
	if err := json.Unmarshal(raw, &data); err != nil || data.URI == "" {
		return action, nil
	}

	doc, layouts := req.Layouts(data.URI)
	if doc == nil {
		return action, nil
	}

	var edits []protocol.TextEdit
	for _, e := range layouts {
		if !e.Editable() {
			continue
		}
		for _, tok := range cellsInRange(doc, e, data.Range) {
			edits = append(edits, ToggleEdit(doc, tok))
		}
	}
	if len(edits) == 0 {
		req.AddWarning(fmt.Errorf("no cells left to toggle in %s", data.URI))
		return action, nil
	}

	action.Edit = &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{data.URI: edits},
	}
	return action, nil
}

// CreateFixAction builds the quick fix for a layout error, or nil when the
// error has none
func CreateFixAction(doc *documents.Document, uri string, err *layout.LayoutError, diags []protocol.Diagnostic) *protocol.CodeAction {
	var title string
	var edit protocol.TextEdit

	switch err.Kind {
	case layout.RaggedRows:
		if err.Got < err.Want {
			n := err.Want - err.Got
			title = fmt.Sprintf("Pad row with %d empty %s", n, plural(n, "cell"))
			edit = protocol.TextEdit{
				Range:   doc.Text().Range(err.Span.Line, err.Span.End, err.Span.End),
				NewText: strings.Repeat(layout.ColumnSeparator, n),
			}
		} else {
			n := err.Got - err.Want
			start, ok := extraCellsStart(doc.Text().Line(err.Span.Line), err)
			if !ok {
				return nil
			}
			title = fmt.Sprintf("Remove %d extra %s", n, plural(n, "cell"))
			edit = protocol.TextEdit{
				Range:   doc.Text().Range(err.Span.Line, start, err.Span.End),
				NewText: "",
			}
		}

	case layout.UnterminatedToken:
		closer := err.Delim
		if closer == '[' {
			closer = ']'
		}
		title = fmt.Sprintf("Close with %c", closer)
		edit = protocol.TextEdit{
			Range:   doc.Text().Range(err.Span.Line, err.Span.End, err.Span.End),
			NewText: string(closer),
		}

	default:
		return nil
	}

	kind := protocol.CodeActionKindQuickFix
	preferred := true
	return &protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: diags,
		IsPreferred: &preferred,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{uri: {edit}},
		},
	}
}

// extraCellsStart finds the separator that ends the last wanted cell of a
// ragged row
func extraCellsStart(line string, err *layout.LayoutError) (int, bool) {
	if err.Span.End > len(line) || err.Want < 1 {
		return 0, false
	}
	row := line[err.Span.Start:err.Span.End]
	off := 0
	for range err.Want {
		i := strings.Index(row[off:], layout.ColumnSeparator)
		if i < 0 {
			return 0, false
		}
		off += i + len(layout.ColumnSeparator)
	}
	return err.Span.Start + off - len(layout.ColumnSeparator), true
}

// CreateToggleNoMergeAction builds the unresolved refactoring that toggles
// the no-merge marker on the given cells
func CreateToggleNoMergeAction(uri string, r protocol.Range, cells []layout.Token) protocol.CodeAction {
	var title string
	switch {
	case len(cells) > 1:
		title = fmt.Sprintf("Toggle no-merge on %d cells", len(cells))
	case cells[0].NoMerge:
		title = fmt.Sprintf("Let %s merge", describe(cells[0]))
	default:
		title = fmt.Sprintf("Mark %s as no-merge", describe(cells[0]))
	}

	kind := protocol.CodeActionKindRefactorRewrite
	return protocol.CodeAction{
		Title: title,
		Kind:  &kind,
		Data:  toggleData{URI: uri, Range: r},
	}
}

func describe(tok layout.Token) string {
	if tok.Text == "" && tok.Kind == layout.Button {
		return "empty cell"
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
}

// ToggleEdit adds the no-merge marker to a cell, or removes it together
// with the whitespace that follows it
func ToggleEdit(doc *documents.Document, tok layout.Token) protocol.TextEdit {
	text := doc.Text()
	if !tok.NoMerge {
		return protocol.TextEdit{
			Range:   text.Range(tok.Span.Line, tok.Span.Start, tok.Span.Start),
			NewText: layout.NoMergeMarker,
		}
	}

	rest := tok.Source[len(layout.NoMergeMarker):]
	n := len(tok.Source) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))
	return protocol.TextEdit{
		Range:   text.Range(tok.Span.Line, tok.Span.Start, tok.Span.Start+n),
		NewText: "",
	}
}

// cellsInRange returns the cells of a valid layout touched by a range
func cellsInRange(doc *documents.Document, e *parser.Embedded, r protocol.Range) []layout.Token {
	g := e.Grid()
	if g == nil {
		return nil
	}
	var out []layout.Token
	for _, tok := range g.Tokens() {
		if RangesTouch(r, types.SpanRange(doc, tok.Span)) {
			out = append(out, tok)
		}
	}
	return out
}

// matchingDiagnostics picks the client's diagnostics for a layout error
func matchingDiagnostics(diags []protocol.Diagnostic, r protocol.Range, kind layout.ErrorKind) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, d := range diags {
		if d.Range == r && d.Code != nil && d.Code.Value == kind.String() {
			out = append(out, d)
		}
	}
	return out
}

// RangesTouch reports whether two ranges overlap or meet. Ranges are
// closed, so a collapsed cursor at either end of a range touches it.
func RangesTouch(a, b protocol.Range) bool {
	return !before(a.End, b.Start) && !before(b.End, a.Start)
}

func before(p, q protocol.Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Character < q.Character)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
