package lifecycle

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")

	// Server.Close does this too; shutdown may be the last request a client sends
	parser.ClosePools()

	return nil
}
