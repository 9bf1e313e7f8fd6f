package references

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// References returns every cell merged into the region under the cursor.
// The seed cell counts as the declaration.
func References(req *types.RequestContext, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Debug("References requested: %s at line %d, char %d", uri, position.Line, position.Character)

	cursor := req.CursorAt(uri, position)
	_, i, ok := cursor.Region()
	if !ok {
		return nil, nil
	}

	locations := types.CellLocations(cursor.Doc, cursor.Layout.Layout, i)
	if !params.Context.IncludeDeclaration {
		// Cells are row-major, so the seed comes first
		locations = locations[1:]
	}
	return locations, nil
}
