package lifecycle

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestInitialize(t *testing.T) {
	t.Run("sets root URI from params.RootURI", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})
		rootURI := "file:///workspace"

		result, err := Initialize(req, &protocol.InitializeParams{RootURI: &rootURI})
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "file:///workspace", ctx.RootURI())
		assert.Equal(t, "/workspace", ctx.RootPath())
	})

	t.Run("sets root path from params.RootPath", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})
		rootPath := "/workspace"

		_, err := Initialize(req, &protocol.InitializeParams{RootPath: &rootPath})
		require.NoError(t, err)

		assert.Equal(t, "/workspace", ctx.RootPath())
		assert.Equal(t, "file:///workspace", ctx.RootURI())
	})

	t.Run("returns server info and capabilities", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})

		result, err := Initialize(req, &protocol.InitializeParams{})
		require.NoError(t, err)

		init, ok := result.(InitializeResult)
		require.True(t, ok)
		require.NotNil(t, init.ServerInfo)
		assert.Equal(t, "pad-language-server", init.ServerInfo.Name)
		require.NotNil(t, init.ServerInfo.Version)
		assert.NotEmpty(t, *init.ServerInfo.Version)

		caps, ok := init.Capabilities.(map[string]any)
		require.True(t, ok)
		for _, key := range []string{
			"textDocumentSync", "hoverProvider", "completionProvider", "definitionProvider",
			"referencesProvider", "documentHighlightProvider", "documentSymbolProvider",
			"documentFormattingProvider", "codeActionProvider", "colorProvider", "semanticTokensProvider",
		} {
			assert.Contains(t, caps, key)
		}
		assert.NotContains(t, caps, "diagnosticProvider", "push clients get no diagnosticProvider")
	})

	t.Run("advertises pull diagnostics when enabled", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetUsePullDiagnostics(true)
		req := types.NewRequestContext(ctx, &glsp.Context{})

		result, err := Initialize(req, &protocol.InitializeParams{})
		require.NoError(t, err)

		caps := result.(InitializeResult).Capabilities.(map[string]any)
		assert.Contains(t, caps, "diagnosticProvider")
	})

	t.Run("stores hover format from client capabilities", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})

		_, err := Initialize(req, &protocol.InitializeParams{
			Capabilities: protocol.ClientCapabilities{
				TextDocument: &protocol.TextDocumentClientCapabilities{
					Hover: &protocol.HoverClientCapabilities{
						ContentFormat: []protocol.MarkupKind{protocol.MarkupKindPlainText},
					},
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, protocol.MarkupKindPlainText, ctx.PreferredHoverFormat())
	})

	t.Run("applies initializationOptions", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})

		_, err := Initialize(req, &protocol.InitializeParams{
			InitializationOptions: map[string]any{
				"padLanguageServer": map[string]any{"templateTags": []any{"grid"}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"grid"}, ctx.GetConfig().TemplateTags)
	})

	t.Run("semantic token legend serializes", func(t *testing.T) {
		data, err := json.Marshal(Capabilities(false)["semanticTokensProvider"])
		require.NoError(t, err)
		assert.Contains(t, string(data), `"tokenTypes":["function","string","variable","type"]`)
		assert.Contains(t, string(data), `"tokenModifiers":["noMerge"]`)
	})
}
