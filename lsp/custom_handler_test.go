package lsp

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/padls/lsp/methods/pad"
	"bennypowers.dev/padls/lsp/methods/textDocument/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func newCustomHandler(t *testing.T) (*CustomHandler, *Server) {
	t.Helper()
	s, err := NewServer()
	require.NoError(t, err)
	return &CustomHandler{Handler: &protocol.Handler{}, server: s}, s
}

func TestCustomHandler_DocumentDiagnostic(t *testing.T) {
	handler, s := newCustomHandler(t)
	require.NoError(t, s.documents.DidOpen("file:///broken.pad", "pad", 1, "A, B\nC"))

	t.Run("valid params", func(t *testing.T) {
		params, err := json.Marshal(diagnostic.DocumentDiagnosticParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///broken.pad"},
		})
		require.NoError(t, err)

		result, validMethod, validParams, err := handler.Handle(&glsp.Context{
			Method: diagnostic.MethodDocumentDiagnostic,
			Params: params,
		})
		require.NoError(t, err)
		assert.True(t, validMethod)
		assert.True(t, validParams)

		report, ok := result.(diagnostic.RelatedFullDocumentDiagnosticReport)
		require.True(t, ok, "got %T", result)
		assert.Len(t, report.Items, 1)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, validMethod, validParams, err := handler.Handle(&glsp.Context{
			Method: diagnostic.MethodDocumentDiagnostic,
			Params: []byte(`{invalid json`),
		})
		assert.True(t, validMethod)
		assert.False(t, validParams)
		assert.Error(t, err)
	})
}

func TestCustomHandler_Regions(t *testing.T) {
	handler, s := newCustomHandler(t)
	require.NoError(t, s.documents.DidOpen("file:///calc.pad", "pad", 1, "7, 8\n0, 0"))

	result, validMethod, validParams, err := handler.Handle(&glsp.Context{
		Method: pad.MethodRegions,
		Params: []byte(`{"textDocument":{"uri":"file:///calc.pad"}}`),
	})
	require.NoError(t, err)
	assert.True(t, validMethod)
	assert.True(t, validParams)

	regions, ok := result.(*pad.RegionsResult)
	require.True(t, ok, "got %T", result)
	require.Len(t, regions.Layouts, 1)
	assert.Len(t, regions.Layouts[0].Regions, 3)

	_, _, validParams, err = handler.Handle(&glsp.Context{
		Method: pad.MethodRegions,
		Params: []byte(`[]`),
	})
	assert.False(t, validParams)
	assert.Error(t, err)
}

func TestCustomHandler_InitializeDetectsFeatures(t *testing.T) {
	handler, s := newCustomHandler(t)

	// The base handler has no Initialize func, so only the interception is observed
	_, _, _, _ = handler.Handle(&glsp.Context{
		Method: protocol.MethodInitialize,
		Params: []byte(`{"capabilities":{"textDocument":{"diagnostic":{}},"workspace":{"diagnostics":{"refreshSupport":true}}}}`),
	})

	assert.True(t, s.UsePullDiagnostics())
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	assert.True(t, s.diagnosticRefresh)
}

func TestCustomHandler_FallsThrough(t *testing.T) {
	handler, _ := newCustomHandler(t)

	_, _, _, err := handler.Handle(&glsp.Context{Method: "textDocument/hover", Params: []byte(`{}`)})
	assert.EqualError(t, err, "server not initialized", "the base handler answers")

	handler.Handler.SetInitialized(true)
	_, validMethod, _, _ := handler.Handle(&glsp.Context{
		Method: "pad/unknown",
		Params: []byte(`{}`),
	})
	assert.False(t, validMethod)
}
