package completion

import (
	"testing"

	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func complete(t *testing.T, req *types.RequestContext, uri string, line, char uint32) *protocol.CompletionList {
	t.Helper()
	result, err := Completion(req, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)
	return list
}

func labels(list *protocol.CompletionList) []string {
	out := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, item.Label)
	}
	return out
}

func TestCompletion_LayoutTexts(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, nil)

	t.Run("new cell in a ragged layout", func(t *testing.T) {
		ctx.OpenDocument("file:///ragged.pad", "pad", "7, 'Total'\n7, ")
		list := complete(t, req, "file:///ragged.pad", 1, 3)
		require.NotNil(t, list)
		assert.Equal(t, []string{"'Total'", "7"}, labels(list))

		item := list.Items[0]
		assert.Equal(t, protocol.CompletionItemKindText, *item.Kind)
		assert.Equal(t, "label", *item.Detail)
		assert.Equal(t, protocol.TextEdit{
			Range: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 3},
				End:   protocol.Position{Line: 1, Character: 3},
			},
			NewText: "'Total'",
		}, item.TextEdit)
	})

	t.Run("the cell being typed is not offered", func(t *testing.T) {
		ctx.OpenDocument("file:///abcd.pad", "pad", "A, B\nC, `D")
		list := complete(t, req, "file:///abcd.pad", 1, 1)
		assert.Equal(t, []string{"A", "B", "D"}, labels(list))

		edit := list.Items[0].TextEdit.(protocol.TextEdit)
		assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edit.Range.Start)
		assert.Equal(t, protocol.Position{Line: 1, Character: 1}, edit.Range.End)
	})

	t.Run("repeated cells stay on offer", func(t *testing.T) {
		ctx.OpenDocument("file:///rep.pad", "pad", "A, A")
		assert.Equal(t, []string{"A"}, labels(complete(t, req, "file:///rep.pad", 0, 1)))
	})

	t.Run("grid template areas", func(t *testing.T) {
		ctx.OpenDocument("file:///page.css", "css", `.p { grid-template-areas: "head head" "side main"; }`)
		list := complete(t, req, "file:///page.css", 0, 40)
		require.NotNil(t, list)
		assert.Equal(t, []string{"head", "main"}, labels(list))

		edit := list.Items[0].TextEdit.(protocol.TextEdit)
		assert.Equal(t, uint32(39), edit.Range.Start.Character)
	})

	t.Run("outside any layout", func(t *testing.T) {
		ctx.OpenDocument("file:///app.js", "javascript", "const k = pad`A, B`;")
		assert.Nil(t, complete(t, req, "file:///app.js", 0, 2))
		assert.Nil(t, complete(t, req, "file:///missing.pad", 0, 0))
	})
}

func TestCompletion_Images(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "cat.png", 3, 2)
	testutil.WritePNG(t, root, "img/dog.png", 4, 5)

	ctx := testutil.NewMockServerContext()
	ctx.SetRootPath(root)
	require.NoError(t, ctx.RefreshImages())
	req := types.NewRequestContext(ctx, nil)
	ctx.OpenDocument("file:///pics.pad", "pad", "A, IMG_")

	list := complete(t, req, "file:///pics.pad", 0, 7)
	require.NotNil(t, list)
	assert.Equal(t, []string{"cat.png", "img/dog.png"}, labels(list))

	item := list.Items[1]
	assert.Equal(t, protocol.CompletionItemKindFile, *item.Kind)
	assert.Equal(t, protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 7},
			End:   protocol.Position{Line: 0, Character: 7},
		},
		NewText: "img/dog.png",
	}, item.TextEdit)

	t.Run("resolve adds the image size", func(t *testing.T) {
		resolved, err := CompletionResolve(req, &item)
		require.NoError(t, err)
		require.NotNil(t, resolved.Detail)
		assert.Equal(t, "png 4x5", *resolved.Detail)

		doc, ok := resolved.Documentation.(protocol.MarkupContent)
		require.True(t, ok)
		assert.Contains(t, doc.Value, "`img/dog.png`")
		assert.Contains(t, doc.Value, "**Size**: 4x5 px")
	})

	t.Run("resolve by base name", func(t *testing.T) {
		resolved, err := CompletionResolve(req, &protocol.CompletionItem{
			Label: "IMG_dog.png",
			Data:  map[string]any{"image": "dog.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, "png 4x5", *resolved.Detail)
	})

	t.Run("resolve leaves other items alone", func(t *testing.T) {
		for _, item := range []*protocol.CompletionItem{
			{Label: "A"},
			{Label: "IMG_bird.png", Data: map[string]any{"image": "bird.png"}},
		} {
			resolved, err := CompletionResolve(req, item)
			require.NoError(t, err)
			assert.Nil(t, resolved.Detail)
			assert.Nil(t, resolved.Documentation)
		}
	})
}
