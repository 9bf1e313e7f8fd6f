package documenthighlight

import (
	"testing"

	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDocumentHighlight(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, nil)
	ctx.OpenDocument("file:///app.js", "javascript", "const k = pad`\n  A, A\n  B, A\n`;")

	highlightAt := func(line, char uint32) []protocol.DocumentHighlight {
		highlights, err := DocumentHighlight(req, &protocol.DocumentHighlightParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: "file:///app.js"},
				Position:     protocol.Position{Line: line, Character: char},
			},
		})
		require.NoError(t, err)
		return highlights
	}

	t.Run("highlights every cell of the region", func(t *testing.T) {
		highlights := highlightAt(1, 2)
		require.Len(t, highlights, 2)
		for _, h := range highlights {
			require.NotNil(t, h.Kind)
			assert.Equal(t, protocol.DocumentHighlightKindText, *h.Kind)
			assert.Equal(t, uint32(1), h.Range.Start.Line)
		}
		assert.Equal(t, uint32(2), highlights[0].Range.Start.Character)
		assert.Equal(t, uint32(5), highlights[1].Range.Start.Character)
	})

	t.Run("the split-off cell is its own region", func(t *testing.T) {
		highlights := highlightAt(2, 5)
		require.Len(t, highlights, 1)
		assert.Equal(t, uint32(2), highlights[0].Range.Start.Line)
	})

	t.Run("outside the template", func(t *testing.T) {
		assert.Nil(t, highlightAt(0, 2))
	})
}
