package semantictokens

import (
	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TokenTypes is the legend, indexed by layout.Kind
var TokenTypes = []string{
	layout.Button:  "function",
	layout.Label:   "string",
	layout.TextBox: "variable",
	layout.Image:   "type",
}

// TokenModifiers is the modifier legend; bit 0 marks no-merge cells
var TokenModifiers = []string{"noMerge"}

const modifierNoMerge = 1 << 0

// SemanticTokenIntermediate represents an intermediate token before delta encoding
type SemanticTokenIntermediate struct {
	Line           int
	StartChar      int
	Length         int
	TokenType      int // Index into TokenTypes
	TokenModifiers int
}

// SemanticTokensFull handles the textDocument/semanticTokens/full request
func SemanticTokensFull(req *types.RequestContext, cache *TokenCache, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	data := encodeSemanticTokens(GetSemanticTokensForDocument(req.Server, doc))
	resultID := cache.Store(uri, data, doc.Version())
	log.Debug("Semantic tokens for %s: %d tokens (%s)", uri, len(data)/5, resultID)

	return &protocol.SemanticTokens{
		ResultID: &resultID,
		Data:     data,
	}, nil
}

// SemanticTokensDelta handles the textDocument/semanticTokens/full/delta request.
// When the previous result is unknown it answers with full tokens.
func SemanticTokensDelta(req *types.RequestContext, cache *TokenCache, params *protocol.SemanticTokensDeltaParams) (any, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	previous := cache.Get(params.PreviousResultID)
	if previous == nil || previous != cache.GetByURI(uri) {
		log.Debug("Unknown semantic tokens result %q for %s, sending full tokens", params.PreviousResultID, uri)
		return SemanticTokensFull(req, cache, &protocol.SemanticTokensParams{TextDocument: params.TextDocument})
	}

	data := encodeSemanticTokens(GetSemanticTokensForDocument(req.Server, doc))
	edits := ComputeDelta(previous.Data, data)
	resultID := cache.Store(uri, data, doc.Version())

	if edits == nil {
		edits = []protocol.SemanticTokensEdit{}
	}
	return &protocol.SemanticTokensDelta{
		ResultId: &resultID,
		Edits:    edits,
	}, nil
}

// SemanticTokensRange handles the textDocument/semanticTokens/range request
func SemanticTokensRange(req *types.RequestContext, params *protocol.SemanticTokensRangeParams) (any, error) {
	doc := req.Server.Document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	startLine, endLine := int(params.Range.Start.Line), int(params.Range.End.Line)
	startChar, endChar := int(params.Range.Start.Character), int(params.Range.End.Character)

	var filtered []SemanticTokenIntermediate
	for _, token := range GetSemanticTokensForDocument(req.Server, doc) {
		if token.Line < startLine || token.Line > endLine {
			continue
		}
		if token.Line == startLine && token.StartChar < startChar {
			continue
		}
		if token.Line == endLine && token.StartChar >= endChar {
			continue
		}
		filtered = append(filtered, token)
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(filtered),
	}, nil
}

// encodeSemanticTokens converts intermediate tokens to delta-encoded format (LSP spec)
func encodeSemanticTokens(intermediateTokens []SemanticTokenIntermediate) []uint32 {
	data := make([]uint32, 0, len(intermediateTokens)*5)
	prevLine := 0
	prevStartChar := 0

	for _, token := range intermediateTokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStartChar
		}

		data = append(data,
			uint32(deltaLine),  //nolint:gosec // tokens are sorted
			uint32(deltaStart), //nolint:gosec // tokens are sorted
			uint32(token.Length),
			uint32(token.TokenType),
			uint32(token.TokenModifiers),
		)

		prevLine = token.Line
		prevStartChar = token.StartChar
	}

	return data
}

// GetSemanticTokensForDocument returns one token per non-empty cell of every
// valid layout in the document, in source order.
// Positions and lengths are in UTF-16 code units (LSP default encoding)
func GetSemanticTokensForDocument(ctx types.ServerContext, doc *documents.Document) []SemanticTokenIntermediate {
	tokens := []SemanticTokenIntermediate{}
	text := doc.Text()

	for _, e := range types.Layouts(ctx, doc) {
		if e.Layout == nil {
			continue
		}
		for _, tok := range e.Layout.Grid().Tokens() {
			if tok.Source == "" {
				continue
			}
			r := text.Range(tok.Span.Line, tok.Span.Start, tok.Span.End)

			modifiers := 0
			if tok.NoMerge {
				modifiers |= modifierNoMerge
			}
			tokens = append(tokens, SemanticTokenIntermediate{
				Line:           int(r.Start.Line),
				StartChar:      int(r.Start.Character),
				Length:         int(r.End.Character - r.Start.Character),
				TokenType:      int(tok.Kind),
				TokenModifiers: modifiers,
			})
		}
	}

	return tokens
}
