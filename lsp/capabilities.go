package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetClientCapabilities stores the capabilities the client declared in initialize
func (s *Server) SetClientCapabilities(caps protocol.ClientCapabilities) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientCapabilities = &caps
}

// ClientCapabilities returns the stored client capabilities, or nil before initialize
func (s *Server) ClientCapabilities() *protocol.ClientCapabilities {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientCapabilities
}

// PreferredHoverFormat returns the client's first supported hover markup,
// falling back to markdown
func (s *Server) PreferredHoverFormat() protocol.MarkupKind {
	caps := s.ClientCapabilities()
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.Hover == nil {
		return protocol.MarkupKindMarkdown
	}
	if formats := caps.TextDocument.Hover.ContentFormat; len(formats) > 0 {
		return formats[0]
	}
	return protocol.MarkupKindMarkdown
}
