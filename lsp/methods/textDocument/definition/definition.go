package definition

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Definition returns the seed cell of the region under the cursor: the
// top-left cell every other cell of the region merged into
func Definition(req *types.RequestContext, params *protocol.DefinitionParams) (any, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Debug("Definition requested: %s at line %d, char %d", uri, position.Line, position.Character)

	cursor := req.CursorAt(uri, position)
	_, i, ok := cursor.Region()
	if !ok {
		return nil, nil
	}

	seed := cursor.Layout.Layout.Seed(i)
	return []protocol.Location{{
		URI:   uri,
		Range: types.SpanRange(cursor.Doc, seed.Span),
	}}, nil
}
