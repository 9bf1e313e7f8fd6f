package workspace

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/uriutil"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles notification.
// Config file changes reload the configuration; image changes refresh the
// image index. Either republishes diagnostics for open documents.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Info("Watched files changed: %d files", len(params.Changes))

	root := req.Server.RootPath()
	images := req.Server.Images()

	reloadConfig := false
	refreshImages := false

	for _, change := range params.Changes {
		rel, ok := uriutil.RelPath(root, change.URI)
		if !ok {
			continue
		}
		log.Debug("File change: %s (type: %d)", rel, change.Type)

		switch {
		case types.IsConfigFile(rel):
			reloadConfig = true
		case images.Matches(rel):
			images.Forget(rel)
			// Edits keep the path set; only creation and deletion change it
			if change.Type != protocol.FileChangeTypeChanged {
				refreshImages = true
			}
		}
	}

	if reloadConfig {
		log.Info("Reloading configuration due to changes")
		if err := req.Server.LoadConfig(); err != nil {
			req.AddWarning(err)
		}
		req.Server.DocumentManager().InvalidateAll()
		refreshImages = true
	}

	if refreshImages {
		if err := req.Server.RefreshImages(); err != nil {
			req.AddWarning(err)
		}
	}

	if reloadConfig || refreshImages {
		req.Server.RefreshDiagnostics(req.GLSP)
	}

	return nil
}
