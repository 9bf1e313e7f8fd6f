package lifecycle

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/uriutil"
	"bennypowers.dev/padls/internal/version"
	"bennypowers.dev/padls/lsp/methods/textDocument/diagnostic"
	semantictokens "bennypowers.dev/padls/lsp/methods/textDocument/semanticTokens"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported in serverInfo
const ServerName = "pad-language-server"

var serverVersion = version.Get()

// InitializeResult mirrors protocol.InitializeResult with untyped capabilities
type InitializeResult struct {
	Capabilities any                                  `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}

	log.Info("Initializing for client: %s", clientName)

	req.Server.SetClientCapabilities(params.Capabilities)

	// The custom handler has already read the 3.17 capabilities from the raw params
	usePull := req.Server.UsePullDiagnostics()
	if usePull {
		log.Info("Using pull diagnostics model (LSP 3.17) - client will request diagnostics")
	} else {
		log.Info("Using push diagnostics model (LSP 3.0) - server will push diagnostics")
	}

	// Store the workspace root
	if params.RootURI != nil && *params.RootURI != "" {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		log.Info("Workspace root: %s", req.Server.RootPath())
	} else if params.RootPath != nil && *params.RootPath != "" {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		log.Info("Workspace root (from rootPath): %s", req.Server.RootPath())
	}

	if params.InitializationOptions != nil {
		if cfg, ok := types.DecodeSettings(params.InitializationOptions); ok {
			req.Server.SetConfig(cfg)
			log.Info("Applied initializationOptions")
		}
	}

	return InitializeResult{
		Capabilities: Capabilities(usePull),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &serverVersion,
		},
	}, nil
}

// Capabilities builds the server capabilities.
//
// WORKAROUND: We use map[string]any instead of protocol.ServerCapabilities to include
// LSP 3.17 fields that don't exist in glsp v0.2.2's protocol.ServerCapabilities struct.
// When glsp is updated to LSP 3.17, we can switch back to using protocol_3_17.ServerCapabilities.
func Capabilities(pullDiagnostics bool) map[string]any {
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		"hoverProvider": true,
		"completionProvider": protocol.CompletionOptions{
			TriggerCharacters: []string{"_", ","},
			ResolveProvider:   boolPtr(true),
		},
		"definitionProvider":        true,
		"referencesProvider":        true,
		"documentHighlightProvider": true,
		"documentSymbolProvider":    true,
		"documentFormattingProvider": true,
		"codeActionProvider": protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{
				protocol.CodeActionKindQuickFix,
				protocol.CodeActionKindRefactorRewrite,
			},
			ResolveProvider: boolPtr(true),
		},
		"colorProvider": true,
		"semanticTokensProvider": map[string]any{
			"legend": map[string]any{
				"tokenTypes":     semantictokens.TokenTypes,
				"tokenModifiers": semantictokens.TokenModifiers,
			},
			"full": map[string]any{
				"delta": true,
			},
			"range": true,
		},
		"experimental": map[string]any{
			"padRegionsProvider": true,
		},
	}

	// LSP 3.17: Only advertise pull diagnostics if client supports it
	// For older clients, we'll use push diagnostics (textDocument/publishDiagnostics)
	if pullDiagnostics {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}
	return capabilities
}

func boolPtr(b bool) *bool {
	return &b
}
