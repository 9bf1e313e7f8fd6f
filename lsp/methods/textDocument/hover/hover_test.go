package hover

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func hoverAt(t *testing.T, req *types.RequestContext, uri string, line, char uint32) *protocol.Hover {
	t.Helper()
	h, err := Hover(req, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	return h
}

func content(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	require.NotNil(t, h)
	markup, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	return markup.Value
}

func TestHover_Region(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///calc.pad", "pad", "7, 8, 9\n0, 0, =")

	h := hoverAt(t, req, "file:///calc.pad", 1, 0)
	value := content(t, h)

	assert.Equal(t, protocol.MarkupKindMarkdown, h.Contents.(protocol.MarkupContent).Kind)
	assert.Contains(t, value, "### button `0`")
	assert.Contains(t, value, "columns 0-1, rows 1-1 (2x1)")
	assert.Contains(t, value, "x=0 y=60 120x60")
	assert.Contains(t, value, "*document*")
	require.NotNil(t, h.Range)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 1},
	}, *h.Range)
}

func TestHover_Plaintext(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.SetClientCapabilities(protocol.ClientCapabilities{
		TextDocument: &protocol.TextDocumentClientCapabilities{
			Hover: &protocol.HoverClientCapabilities{
				ContentFormat: []protocol.MarkupKind{protocol.MarkupKindPlainText},
			},
		},
	})
	ctx.SetConfig(types.ServerConfig{CellWidth: 50, HGap: 2, Border: 1})
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///form.pad", "pad", "'Name', [name], [name]\n`Go, [name], [name]")

	value := content(t, hoverAt(t, req, "file:///form.pad", 0, 9))
	assert.Contains(t, value, "textbox name\n")
	assert.Contains(t, value, "columns 1-2, rows 0-1 (2x2)")
	assert.Contains(t, value, "Frame: x=53 y=1 102x120")
	assert.NotContains(t, value, "**")

	value = content(t, hoverAt(t, req, "file:///form.pad", 1, 1))
	assert.Contains(t, value, "button Go (no-merge)")
}

func TestHover_Image(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "img"), 0o755))
	f, err := os.Create(filepath.Join(root, "img", "cat.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	require.NoError(t, f.Close())

	ctx := testutil.NewMockServerContext()
	ctx.SetRootPath(root)
	require.NoError(t, ctx.RefreshImages())
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///pics.pad", "pad", "IMG_cat.png, IMG_dog.png")

	value := content(t, hoverAt(t, req, "file:///pics.pad", 0, 2))
	assert.Contains(t, value, "### image `cat.png`")
	assert.Contains(t, value, "`img/cat.png` (png, 3x2 px)")

	value = content(t, hoverAt(t, req, "file:///pics.pad", 0, 15))
	assert.Contains(t, value, "### image `dog.png`")
	assert.NotContains(t, value, "**Image**")
}

func TestHover_BadSizeSettings(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.SetConfig(types.ServerConfig{CellWidth: []any{10}})
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///calc.pad", "pad", "1, 2")

	value := content(t, hoverAt(t, req, "file:///calc.pad", 0, 0))
	assert.NotContains(t, value, "**Frame**")
	require.True(t, req.HasWarnings())
	assert.Contains(t, req.Warnings()[0].Error(), "cellWidth")
}

func TestHover_OutsideLayouts(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///app.js", "javascript", "const k = pad`A, B`;\nconsole.log(k);")

	assert.Nil(t, hoverAt(t, req, "file:///app.js", 1, 3))
	assert.Nil(t, hoverAt(t, req, "file:///missing.pad", 0, 0))

	value := content(t, hoverAt(t, req, "file:///app.js", 0, 17))
	assert.Contains(t, value, "### button `B`")
	assert.Contains(t, value, "*template*")
}

func TestHover_BrokenLayout(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	ctx.OpenDocument("file:///broken.pad", "pad", "A, 'B")

	assert.Nil(t, hoverAt(t, req, "file:///broken.pad", 0, 0))
}
