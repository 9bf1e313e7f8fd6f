package lifecycle

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	// Store context for later use (diagnostics)
	req.Server.SetGLSPContext(req.GLSP)

	// Failures below are logged and reported; they never fail initialization
	if err := req.Server.LoadConfig(); err != nil {
		req.AddWarning(err)
	}

	if err := req.Server.RefreshImages(); err != nil {
		req.AddWarning(err)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	return nil
}
