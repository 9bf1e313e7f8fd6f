package types

import (
	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/internal/uriutil"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerContext provides all dependencies needed for LSP handlers.
// This unified context eliminates the need for handler-specific interfaces
// and enables dependency injection for testing.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Image operations
	Images() *images.Index
	RefreshImages() error

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration. GetConfig returns the effective configuration,
	// SetConfig replaces the client settings.
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	LoadConfig() error
	IsLayoutFile(uri string) bool

	// Workspace initialization (called by Initialized handler)
	RegisterFileWatchers(ctx *glsp.Context) error

	// Client capabilities, stored by the Initialize handler
	SetClientCapabilities(caps protocol.ClientCapabilities)
	PreferredHoverFormat() protocol.MarkupKind

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics publishing
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)
	PublishDiagnostics(context *glsp.Context, uri string) error
	RefreshDiagnostics(context *glsp.Context)
}

// IsLayoutFile reports whether a URI names a layout file under cfg,
// relative to the workspace root
func IsLayoutFile(cfg ServerConfig, rootPath, uri string) bool {
	if uriutil.Ext(uri) == LayoutExtension {
		return true
	}
	rel, ok := uriutil.RelPath(rootPath, uri)
	return ok && cfg.MatchesLayoutFile(rel)
}

// LanguageOf returns the language a document is read as: layout files are
// "pad" whatever the client calls them
func LanguageOf(s ServerContext, doc *documents.Document) string {
	if s.IsLayoutFile(doc.URI()) {
		return parser.LanguagePad
	}
	return doc.LanguageID()
}

// Layouts returns the layouts embedded in a document under the current configuration
func Layouts(s ServerContext, doc *documents.Document) []*parser.Embedded {
	return doc.Layouts(LanguageOf(s, doc), s.GetConfig().ParserOptions())
}
