package textDocument

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	log.Info("Document opened: %s (language: %s, version: %d)",
		params.TextDocument.URI, params.TextDocument.LanguageID, int(params.TextDocument.Version))

	err := req.Server.DocumentManager().DidOpen(params.TextDocument.URI, params.TextDocument.LanguageID,
		int(params.TextDocument.Version), params.TextDocument.Text)
	if err != nil {
		return err
	}

	publish(req, params.TextDocument.URI)
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)

	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	// glsp decodes full-text changes as TextDocumentContentChangeEventWhole;
	// the manager reads a nil Range as a full replacement
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch event := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, event)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: event.Text})
		}
	}

	_, before := req.Layouts(uri)

	if err := req.Server.DocumentManager().DidChange(uri, version, changes); err != nil {
		return err
	}

	_, after := req.Layouts(uri)
	logChanges(uri, before, after)

	publish(req, uri)
	return nil
}

// DidClose handles the textDocument/didClose notification
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	log.Info("Document closed: %s", uri)

	return req.Server.DocumentManager().DidClose(uri)
}

// publish pushes diagnostics for a document unless the client pulls them
func publish(req *types.RequestContext, uri string) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(glspCtx, uri); err != nil {
		log.Warn("Failed to publish diagnostics for %s: %v", uri, err)
	}
}

// logChanges reports how an edit reshaped the document's layouts
func logChanges(uri string, before, after []*parser.Embedded) {
	if len(before) != len(after) {
		log.Debug("%s: %d layouts, was %d", uri, len(after), len(before))
		return
	}
	for i := range after {
		changes := layout.Diff(before[i].Layout, after[i].Layout)
		if changes.Unchanged() {
			continue
		}
		log.Debug("%s: layout %d regions kept %d, added %d, removed %d",
			uri, i, len(changes.Kept), len(changes.Added), len(changes.Removed))
	}
}
