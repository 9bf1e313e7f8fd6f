package testutil

import (
	"sync"

	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// MockServerContext implements types.ServerContext for testing.
// It provides a minimal implementation with configurable behavior via callback functions.
type MockServerContext struct {
	docs        *documents.Manager
	images      *images.Index
	rootURI     string
	rootPath    string
	config      types.ServerConfig
	glspContext *glsp.Context
	usePull     bool
	hoverFormat protocol.MarkupKind

	// Optional callbacks for custom behavior in tests
	LoadConfigFunc         func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that need to verify methods were called
	mu                     sync.Mutex
	LoadConfigCalled       bool
	RefreshImagesCalled    int
	RegisterWatchersCalled bool
	Published              []string
	Refreshed              int
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		images: images.NewIndex(),
	}
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// AllDocuments returns all tracked documents
func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

// OpenDocument opens a document at version 1 and returns it
func (m *MockServerContext) OpenDocument(uri, languageID, content string) *documents.Document {
	_ = m.docs.DidOpen(uri, languageID, 1, content)
	return m.docs.Get(uri)
}

// Images returns the workspace image index
func (m *MockServerContext) Images() *images.Index {
	return m.images
}

// RefreshImages rescans the root path with the configured globs
func (m *MockServerContext) RefreshImages() error {
	m.mu.Lock()
	m.RefreshImagesCalled++
	m.mu.Unlock()
	return m.images.Refresh(m.rootPath, m.GetConfig().ImageGlobs)
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// GetConfig returns the configuration merged over the defaults
func (m *MockServerContext) GetConfig() types.ServerConfig {
	return m.config.Merge(types.DefaultConfig())
}

// SetConfig sets the server configuration
func (m *MockServerContext) SetConfig(config types.ServerConfig) {
	m.config = config
}

// LoadConfig records the call and runs LoadConfigFunc if set
func (m *MockServerContext) LoadConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	return nil
}

// IsLayoutFile checks the URI against the configuration
func (m *MockServerContext) IsLayoutFile(uri string) bool {
	return types.IsLayoutFile(m.GetConfig(), m.rootPath, uri)
}

// RegisterFileWatchers registers file watchers with the client
func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

// SetClientCapabilities takes the first hover content format, if any
func (m *MockServerContext) SetClientCapabilities(caps protocol.ClientCapabilities) {
	m.hoverFormat = ""
	if caps.TextDocument != nil && caps.TextDocument.Hover != nil && len(caps.TextDocument.Hover.ContentFormat) > 0 {
		m.hoverFormat = caps.TextDocument.Hover.ContentFormat[0]
	}
}

// PreferredHoverFormat defaults to markdown
func (m *MockServerContext) PreferredHoverFormat() protocol.MarkupKind {
	if m.hoverFormat == "" {
		return protocol.MarkupKindMarkdown
	}
	return m.hoverFormat
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// UsePullDiagnostics reports whether the client pulls diagnostics
func (m *MockServerContext) UsePullDiagnostics() bool {
	return m.usePull
}

// SetUsePullDiagnostics sets whether the client pulls diagnostics
func (m *MockServerContext) SetUsePullDiagnostics(use bool) {
	m.usePull = use
}

// PublishDiagnostics records the URI and runs PublishDiagnosticsFunc if set
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Published = append(m.Published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

// RefreshDiagnostics counts the call and, in push mode, publishes every open document
func (m *MockServerContext) RefreshDiagnostics(context *glsp.Context) {
	m.mu.Lock()
	m.Refreshed++
	m.mu.Unlock()
	if m.usePull {
		return
	}
	for _, doc := range m.docs.GetAll() {
		_ = m.PublishDiagnostics(context, doc.URI())
	}
}
