package documenthighlight

import (
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentHighlight highlights every cell of the region under the cursor
func DocumentHighlight(req *types.RequestContext, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	cursor := req.CursorAt(params.TextDocument.URI, params.Position)
	_, i, ok := cursor.Region()
	if !ok {
		return nil, nil
	}

	kind := protocol.DocumentHighlightKindText
	locations := types.CellLocations(cursor.Doc, cursor.Layout.Layout, i)
	highlights := make([]protocol.DocumentHighlight, len(locations))
	for j, loc := range locations {
		highlights[j] = protocol.DocumentHighlight{Range: loc.Range, Kind: &kind}
	}
	return highlights, nil
}
