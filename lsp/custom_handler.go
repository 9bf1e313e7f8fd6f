package lsp

import (
	"encoding/json"

	"bennypowers.dev/padls/lsp/methods/pad"
	"bennypowers.dev/padls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/padls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add custom method support
//
// WORKAROUND: This wrapper is needed to support LSP 3.17 methods while using glsp v0.2.2
// which only implements LSP 3.16. The protocol.Handler struct doesn't have fields for
// LSP 3.17 methods like textDocument/diagnostic, so we intercept them here.
// It also serves pad/regions, which no LSP version defines.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
}

// Handle implements glsp.Handler interface
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case protocol.MethodInitialize:
		// The parsed 3.16 InitializeParams drop the 3.17 fields, so read
		// them from the raw params and let the normal handler continue
		features := DetectClientFeatures(context.Params)
		h.server.SetUsePullDiagnostics(features.PullDiagnostics)
		h.server.setDiagnosticRefresh(features.DiagnosticRefresh)

	case diagnostic.MethodDocumentDiagnostic:
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		handler := method(h.server, diagnostic.MethodDocumentDiagnostic, diagnostic.DocumentDiagnostic)
		result, err := handler(context, &params)
		return result, true, true, err

	case pad.MethodRegions:
		var params pad.RegionsParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		handler := method(h.server, pad.MethodRegions, pad.Regions)
		result, err := handler(context, &params)
		return result, true, true, err
	}

	return h.Handler.Handle(context)
}

// Verify the custom handlers match the middleware's signature
var (
	_ func(*types.RequestContext, *diagnostic.DocumentDiagnosticParams) (any, error) = diagnostic.DocumentDiagnostic
	_ func(*types.RequestContext, *pad.RegionsParams) (*pad.RegionsResult, error)   = pad.Regions
)
