package diagnostic

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"

	"bennypowers.dev/padls/internal/documents"
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/internal/parser/css"
	"bennypowers.dev/padls/layout"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source names this server in every diagnostic
const Source = "pad"

// Diagnostic codes beyond the layout.ErrorKind codes
const (
	CodeNonRectangular = "non-rectangular-area"
	CodeMissingImage   = "missing-image"
)

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics)
//
// This is an LSP 3.17 feature. Since glsp v0.2.2 only supports LSP 3.16, this handler
// is called via CustomHandler which intercepts the method before it reaches protocol.Handler.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	resultID, err := ResultID(diagnostics)
	if err != nil {
		return nil, err
	}
	if params.PreviousResultID != "" && params.PreviousResultID == resultID {
		return RelatedUnchangedDocumentDiagnosticReport{
			Kind:     string(DiagnosticUnchanged),
			ResultID: resultID,
		}, nil
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:     string(DiagnosticFull),
		ResultID: resultID,
		Items:    diagnostics,
	}, nil
}

// ResultID identifies a diagnostic report by its content, so a client
// holding the same id already has these items
func ResultID(diagnostics []protocol.Diagnostic) (string, error) {
	data, err := json.Marshal(diagnostics)
	if err != nil {
		return "", fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("pad-%016x", h.Sum64()), nil
}

// GetDiagnostics returns diagnostics for every layout in a document
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	cfg := ctx.GetConfig()
	validateImages := cfg.ShouldValidateImages() && ctx.Images().Root() != ""

	var diagnostics []protocol.Diagnostic
	for _, e := range types.Layouts(ctx, doc) {
		for _, err := range e.Errors {
			diagnostics = append(diagnostics, errorDiagnostic(doc, err))
		}
		if e.Layout == nil {
			continue
		}
		if e.Host == parser.GridAreas {
			diagnostics = append(diagnostics, areaDiagnostics(doc, e.Layout)...)
			continue
		}
		if validateImages {
			diagnostics = append(diagnostics, imageDiagnostics(ctx, doc, e.Layout)...)
		}
	}

	return diagnostics, nil
}

func newDiagnostic(r protocol.Range, severity protocol.DiagnosticSeverity, code, message string) protocol.Diagnostic {
	source := Source
	return protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  message,
	}
}

func errorDiagnostic(doc *documents.Document, err *layout.LayoutError) protocol.Diagnostic {
	return newDiagnostic(
		types.SpanRange(doc, err.Span),
		protocol.DiagnosticSeverityError,
		err.Kind.String(),
		err.Error(),
	)
}

// areaDiagnostics reports grid-template-areas names that do not form a rectangle.
// Each piece links to the others.
func areaDiagnostics(doc *documents.Document, l *layout.Layout) []protocol.Diagnostic {
	split := css.NonRectangular(l)
	names := make([]string, 0, len(split))
	for name := range split {
		names = append(names, name)
	}
	slices.Sort(names)

	var diagnostics []protocol.Diagnostic
	for _, name := range names {
		pieces := split[name]
		ranges := make([]protocol.Range, len(pieces))
		for i, r := range pieces {
			ranges[i] = types.RegionRange(doc, l, l.IndexAt(r.X0, r.Y0))
		}

		for i := range pieces {
			d := newDiagnostic(
				ranges[i],
				protocol.DiagnosticSeverityError,
				CodeNonRectangular,
				fmt.Sprintf("grid area %q is not a rectangle (%d pieces)", name, len(pieces)),
			)
			for j := range pieces {
				if j == i {
					continue
				}
				d.RelatedInformation = append(d.RelatedInformation, protocol.DiagnosticRelatedInformation{
					Location: protocol.Location{URI: doc.URI(), Range: ranges[j]},
					Message:  fmt.Sprintf("another piece of %q", name),
				})
			}
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

// imageDiagnostics warns about IMG_ cells naming files missing from the index
func imageDiagnostics(ctx types.ServerContext, doc *documents.Document, l *layout.Layout) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, tok := range l.Grid().Tokens() {
		if tok.Kind != layout.Image {
			continue
		}
		if _, ok := ctx.Images().Lookup(tok.Text); ok {
			continue
		}
		message := fmt.Sprintf("image %q not found in workspace", tok.Text)
		if tok.Text == "" {
			message = "image cell names no file"
		}
		diagnostics = append(diagnostics, newDiagnostic(
			types.SpanRange(doc, tok.Span),
			protocol.DiagnosticSeverityWarning,
			CodeMissingImage,
			message,
		))
	}
	return diagnostics
}
