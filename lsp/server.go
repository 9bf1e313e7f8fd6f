package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/lsp/methods/lifecycle"
	"bennypowers.dev/padls/lsp/methods/textDocument"
	codeaction "bennypowers.dev/padls/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/padls/lsp/methods/textDocument/completion"
	"bennypowers.dev/padls/lsp/methods/textDocument/definition"
	"bennypowers.dev/padls/lsp/methods/textDocument/diagnostic"
	documentcolor "bennypowers.dev/padls/lsp/methods/textDocument/documentColor"
	documenthighlight "bennypowers.dev/padls/lsp/methods/textDocument/documentHighlight"
	documentsymbol "bennypowers.dev/padls/lsp/methods/textDocument/documentSymbol"
	"bennypowers.dev/padls/lsp/methods/textDocument/formatting"
	"bennypowers.dev/padls/lsp/methods/textDocument/hover"
	"bennypowers.dev/padls/lsp/methods/textDocument/references"
	semantictokens "bennypowers.dev/padls/lsp/methods/textDocument/semanticTokens"
	"bennypowers.dev/padls/lsp/methods/workspace"
	"bennypowers.dev/padls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is the server name reported to clients
const Name = "pad-language-server"

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server represents the Pad Layout Language Server
type Server struct {
	documents          *documents.Manager
	images             *images.Index
	glspServer         *server.Server
	context            *glsp.Context
	rootURI            string                   // Workspace root URI
	rootPath           string                   // Workspace root path (file system)
	config             types.ServerConfig       // Client settings
	fileConfig         types.ServerConfig       // package.json and .padls.yaml settings
	clientCapabilities *protocol.ClientCapabilities
	configMu           sync.RWMutex // Protects config, fileConfig, context, capabilities and usePullDiagnostics
	usePullDiagnostics bool         // Whether to use pull diagnostics (LSP 3.17) vs push (LSP 3.0)
	diagnosticRefresh  bool         // Whether the client accepts workspace/diagnostic/refresh
	semanticTokenCache *semantictokens.TokenCache
}

// NewServer creates a new Pad Layout LSP server
func NewServer() (*Server, error) {
	s := &Server{
		documents:          documents.NewManager(),
		images:             images.NewIndex(),
		semanticTokenCache: semantictokens.NewTokenCache(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                          method(s, "initialize", lifecycle.Initialize),
		Initialized:                         notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                            noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                            notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration:     notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:      notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:                 notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:               notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:                notify(s, "textDocument/didClose", s.didClose),
		TextDocumentHover:                   method(s, "textDocument/hover", hover.Hover),
		TextDocumentCompletion:              method(s, "textDocument/completion", completion.Completion),
		CompletionItemResolve:               method(s, "completionItem/resolve", completion.CompletionResolve),
		TextDocumentDefinition:              method(s, "textDocument/definition", definition.Definition),
		TextDocumentReferences:              method(s, "textDocument/references", references.References),
		TextDocumentDocumentHighlight:       method(s, "textDocument/documentHighlight", documenthighlight.DocumentHighlight),
		TextDocumentDocumentSymbol:          method(s, "textDocument/documentSymbol", documentsymbol.DocumentSymbol),
		TextDocumentColor:                   method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:       method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentCodeAction:              method(s, "textDocument/codeAction", codeaction.CodeAction),
		CodeActionResolve:                   method(s, "codeAction/resolve", codeaction.CodeActionResolve),
		TextDocumentFormatting:              method(s, "textDocument/formatting", formatting.Formatting),
		TextDocumentSemanticTokensFull:      method(s, "textDocument/semanticTokens/full", s.semanticTokensFull),
		TextDocumentSemanticTokensFullDelta: method(s, "textDocument/semanticTokens/full/delta", s.semanticTokensDelta),
		TextDocumentSemanticTokensRange:     method(s, "textDocument/semanticTokens/range", semantictokens.SemanticTokensRange),
	}

	// WORKAROUND: Wrap with custom handler to support LSP 3.17 features
	// The CustomHandler intercepts LSP 3.17 methods (like textDocument/diagnostic)
	// and our own pad/regions request before they reach protocol.Handler,
	// which only knows about LSP 3.16 methods.
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, Name, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases server resources including the tree-sitter parser pools.
// It is safe to call Close multiple times.
func (s *Server) Close() error {
	parser.ClosePools()
	return nil
}

// semanticTokensFull and semanticTokensDelta bind the handlers to the server's result cache
func (s *Server) semanticTokensFull(req *types.RequestContext, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return semantictokens.SemanticTokensFull(req, s.semanticTokenCache, params)
}

func (s *Server) semanticTokensDelta(req *types.RequestContext, params *protocol.SemanticTokensDeltaParams) (any, error) {
	return semantictokens.SemanticTokensDelta(req, s.semanticTokenCache, params)
}

// didClose also drops the closed document's cached semantic tokens
func (s *Server) didClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	s.semanticTokenCache.Invalidate(params.TextDocument.URI)
	return textDocument.DidClose(req, params)
}

// ServerContext interface implementation

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Images returns the workspace image index
func (s *Server) Images() *images.Index {
	return s.images
}

// RefreshImages rescans the workspace for images matching the configured globs
func (s *Server) RefreshImages() error {
	root := s.RootPath()
	if root == "" {
		return nil
	}
	err := s.images.Refresh(root, s.GetConfig().ImageGlobs)
	log.Info("Indexed %d images under %s", s.images.Len(), root)
	return err
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GLSPContext returns the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// UsePullDiagnostics returns whether the client supports pull diagnostics (LSP 3.17)
// If true, the server should NOT send push diagnostics (textDocument/publishDiagnostics)
// and instead wait for the client to request diagnostics via textDocument/diagnostic
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics sets whether to use pull diagnostics based on client capabilities
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

func (s *Server) setDiagnosticRefresh(supported bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.diagnosticRefresh = supported
}

// RefreshDiagnostics brings every open document's diagnostics up to date
// after a workspace-wide change. Pull clients are asked to re-pull when
// they support it; push clients get fresh diagnostics for each document.
func (s *Server) RefreshDiagnostics(context *glsp.Context) {
	if context == nil {
		context = s.GLSPContext()
	}
	if context == nil {
		return
	}

	if s.UsePullDiagnostics() {
		s.configMu.RLock()
		refresh := s.diagnosticRefresh
		s.configMu.RUnlock()
		if !refresh || context.Call == nil {
			return
		}
		// Requests must not block the message loop, see RegisterFileWatchers
		go func(ctx *glsp.Context) {
			var result any
			ctx.Call(diagnostic.MethodWorkspaceDiagnosticRefresh, nil, &result)
		}(context)
		return
	}

	for _, doc := range s.AllDocuments() {
		if err := s.PublishDiagnostics(context, doc.URI()); err != nil {
			log.Warn("Failed to publish diagnostics for %s: %v", doc.URI(), err)
		}
	}
}

// IsLayoutFile reports whether a URI names a file read entirely as a layout
func (s *Server) IsLayoutFile(uri string) bool {
	return types.IsLayoutFile(s.GetConfig(), s.RootPath(), uri)
}

// PublishDiagnostics publishes diagnostics for a document
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	log.Debug("Publishing diagnostics for: %s", uri)

	// Select a working context: use passed-in context if non-nil, otherwise fall back to server's context
	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}
	if workingContext == nil || workingContext.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	// If server is configured to use pull diagnostics, don't publish (client will request)
	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})

	return nil
}
