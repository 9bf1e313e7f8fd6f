package formatting

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Formatting handles the textDocument/formatting request by aligning the
// columns of a layout document. Broken layouts are left alone.
func Formatting(req *types.RequestContext, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := req.Server.Document(params.TextDocument.URI)
	if doc == nil || types.LanguageOf(req.Server, doc) != parser.LanguagePad {
		return nil, nil
	}

	content := doc.Content()
	formatted, err := layout.Format(content)
	if err != nil {
		log.Debug("Not formatting %s: %v", params.TextDocument.URI, err)
		return nil, nil
	}
	if formatted == content {
		return []protocol.TextEdit{}, nil
	}

	text := doc.Text()
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   text.End(),
		},
		NewText: formatted,
	}}, nil
}
