package lsp

import (
	"path/filepath"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FileWatcherID identifies the watcher registration
const FileWatcherID = "pad-file-watcher"

// watchPatterns returns the glob patterns the client should watch:
// config files, image globs and layout file globs, rooted at the workspace
func (s *Server) watchPatterns() []string {
	root := s.RootPath()
	if root == "" {
		return nil
	}
	// Glob patterns use filesystem paths, not URIs
	rootPattern := filepath.ToSlash(filepath.Clean(root))
	cfg := s.GetConfig()

	patterns := []string{rootPattern + "/package.json"}
	for _, name := range types.ConfigFileNames {
		patterns = append(patterns, rootPattern+"/"+name)
	}
	for _, glob := range cfg.ImageGlobs {
		patterns = append(patterns, rootPattern+"/"+glob)
	}
	patterns = append(patterns, rootPattern+"/**/*.pad")
	for _, glob := range cfg.LayoutFiles {
		patterns = append(patterns, rootPattern+"/"+glob)
	}
	return patterns
}

// RegisterFileWatchers registers file watchers with the client
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// Guard against nil context (can happen in tests without real LSP connection)
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	patterns := s.watchPatterns()
	if len(patterns) == 0 {
		log.Info("No file watchers to register")
		return nil
	}

	watchers := make([]protocol.FileSystemWatcher, len(patterns))
	for i, pattern := range patterns {
		watchers[i] = protocol.FileSystemWatcher{GlobPattern: pattern}
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     FileWatcherID,
				Method: protocol.MethodWorkspaceDidChangeWatchedFiles,
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request, so it goes through Call.
	// It runs in a goroutine: a synchronous Call blocks the message loop,
	// which then can never read the client's response.
	// glsp logs a rejected registration; file watching is optional.
	go func() {
		var result any
		context.Call(protocol.ServerClientRegisterCapability, params, &result)
		log.Debug("File watcher registration completed")
	}()

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}
