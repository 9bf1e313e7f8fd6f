package workspace

import (
	"fmt"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	config, ok := types.DecodeSettings(params.Settings)
	if !ok {
		// Keep the previous settings
		req.AddWarning(fmt.Errorf("ignoring %s settings: not an object", types.SettingsKey))
		return nil
	}

	req.Server.SetConfig(config)
	log.Debug("New client configuration: %+v", config)

	// Tags, script types and layoutFiles decide what a layout is
	req.Server.DocumentManager().InvalidateAll()

	if err := req.Server.RefreshImages(); err != nil {
		req.AddWarning(err)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	req.Server.RefreshDiagnostics(req.GLSP)
	return nil
}
