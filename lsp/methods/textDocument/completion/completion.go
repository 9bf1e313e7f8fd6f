package completion

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/internal/parser/css"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// dataImage is the item data key naming the image an item inserts
const dataImage = "image"

var imageDocTemplate = template.Must(template.New("imageDoc").Parse(`### ` + "`{{.Path}}`" + `

**Format**: {{.Format}}

**Size**: {{.Width}}x{{.Height}} px
`))

var itemKinds = map[layout.Kind]protocol.CompletionItemKind{
	layout.Button:  protocol.CompletionItemKindValue,
	layout.Label:   protocol.CompletionItemKindText,
	layout.TextBox: protocol.CompletionItemKindField,
	layout.Image:   protocol.CompletionItemKindFile,
}

// cell is the part of the cell under the cursor that precedes it
type cell struct {
	line   int
	start  int // byte column where the typed text begins
	prefix string
	whole  string // the full cell text, cursor position included
}

// Completion handles the textDocument/completion request.
// After IMG_ it offers workspace images; elsewhere it offers the cell
// texts already used in the layout.
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	cursor := req.CursorAt(params.TextDocument.URI, params.Position)
	if cursor == nil || cursor.Layout == nil {
		return nil, nil
	}

	c := cellAt(cursor)
	log.Debug("Completion in %s cell %q", cursor.Layout.Host, c.prefix)

	var items []protocol.CompletionItem
	if cursor.Layout.Host != parser.GridAreas && strings.HasPrefix(c.prefix, layout.ImagePrefix) {
		items = imageItems(req.Server.Images(), cursor, c)
	} else {
		items = textItems(cursor, c)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// cellAt finds the cell text around the cursor by scanning to the nearest
// delimiters on the line
func cellAt(cursor *types.Cursor) cell {
	e := cursor.Layout
	line := cursor.Doc.Text().Line(cursor.Line)
	col := min(cursor.Col, len(line))

	lower, upper := 0, len(line)
	if cursor.Line == e.Start.Line {
		lower = e.Start.Start
	}
	if cursor.Line == e.End.Line {
		upper = min(e.End.Start, upper)
	}

	isDelim := func(b byte) bool { return strings.IndexByte(layout.ColumnSeparator, b) >= 0 }
	if e.Host == parser.GridAreas {
		isDelim = func(b byte) bool { return b == ' ' || b == '\t' || b == '"' || b == '\'' }
	}

	start := col
	for start > lower && !isDelim(line[start-1]) {
		start--
	}
	end := col
	for end < upper && !isDelim(line[end]) {
		end++
	}

	for start < col && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	if e.Host != parser.GridAreas && strings.HasPrefix(line[start:col], layout.NoMergeMarker) {
		start += len(layout.NoMergeMarker)
		for start < col && line[start] == ' ' {
			start++
		}
	}

	return cell{
		line:   cursor.Line,
		start:  start,
		prefix: line[start:col],
		whole:  strings.TrimSpace(line[start:max(start, end)]),
	}
}

func imageItems(index *images.Index, cursor *types.Cursor, c cell) []protocol.CompletionItem {
	text := cursor.Doc.Text()
	nameStart := c.start + len(layout.ImagePrefix)
	r := protocol.Range{
		Start: text.Position(c.line, nameStart),
		End:   text.Position(cursor.Line, cursor.Col),
	}

	kind := protocol.CompletionItemKindFile
	paths := index.Paths()
	items := make([]protocol.CompletionItem, 0, len(paths))
	for _, p := range paths {
		items = append(items, protocol.CompletionItem{
			Label:    p,
			Kind:     &kind,
			TextEdit: protocol.TextEdit{Range: r, NewText: p},
			Data:     map[string]any{dataImage: p},
		})
	}
	return items
}

func textItems(cursor *types.Cursor, c cell) []protocol.CompletionItem {
	counts := make(map[string]int)
	kinds := make(map[string]layout.Kind)
	for _, tok := range cellTokens(cursor.Layout) {
		if tok.Source == "" || css.IsNullCell(tok.Source) {
			continue
		}
		text := strings.TrimLeft(strings.TrimPrefix(tok.Source, layout.NoMergeMarker), " ")
		counts[text]++
		kinds[text] = tok.Kind
	}
	// the cell being typed is not a suggestion unless it also appears elsewhere
	if counts[c.whole] > 0 {
		counts[c.whole]--
	}

	texts := make([]string, 0, len(counts))
	for text, n := range counts {
		if n > 0 {
			texts = append(texts, text)
		}
	}
	slices.Sort(texts)

	text := cursor.Doc.Text()
	r := protocol.Range{
		Start: text.Position(c.line, c.start),
		End:   text.Position(cursor.Line, cursor.Col),
	}

	items := make([]protocol.CompletionItem, 0, len(texts))
	for _, t := range texts {
		kind := itemKinds[kinds[t]]
		detail := kinds[t].String()
		item := protocol.CompletionItem{
			Label:    t,
			Kind:     &kind,
			Detail:   &detail,
			TextEdit: protocol.TextEdit{Range: r, NewText: t},
		}
		if kinds[t] == layout.Image {
			item.Data = map[string]any{dataImage: strings.TrimPrefix(t, layout.ImagePrefix)}
		}
		items = append(items, item)
	}
	return items
}

// cellTokens returns the cells of a layout. A layout with errors has no
// grid, so its lines are tokenized one at a time and broken lines skipped.
func cellTokens(e *parser.Embedded) []layout.Token {
	if g := e.Grid(); g != nil {
		return g.Tokens()
	}

	var out []layout.Token
	for _, line := range strings.Split(e.Source, layout.RowSeparator) {
		if g, err := layout.Tokenize(line); err == nil {
			out = append(out, g.Tokens()...)
		}
	}
	return out
}

// CompletionResolve adds the size and format of image items
func CompletionResolve(req *types.RequestContext, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	data, ok := item.Data.(map[string]any)
	if !ok {
		return item, nil
	}
	name, ok := data[dataImage].(string)
	if !ok || name == "" {
		return item, nil
	}

	info, err := req.Server.Images().Probe(name)
	if err != nil {
		log.Debug("Cannot resolve image %s: %v", name, err)
		return item, nil
	}

	var buf bytes.Buffer
	if err := imageDocTemplate.Execute(&buf, info); err != nil {
		log.Warn("Failed to render image documentation: %v", err)
		return item, nil
	}

	detail := fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)
	item.Detail = &detail
	item.Documentation = protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: buf.String(),
	}
	return item, nil
}
