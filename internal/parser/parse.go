package parser

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/internal/parser/css"
	"bennypowers.dev/padls/internal/parser/html"
	"bennypowers.dev/padls/internal/parser/js"
	"bennypowers.dev/padls/layout"
)

// LanguagePad is the language ID of a document that is entirely a layout
const LanguagePad = "pad"

// languages maps language IDs to the extractor they use
var languages = map[string]Host{
	LanguagePad:       Document,
	"css":             GridAreas,
	"html":            Script,
	"javascript":      Template,
	"javascriptreact": Template,
	"typescript":      Template,
	"typescriptreact": Template,
}

// Options select which embedded constructs hold layouts
type Options struct {
	// TemplateTags are the JS/TS tag functions whose templates are layouts
	TemplateTags []string
	// ScriptTypes are the <script type> values whose bodies are layouts
	ScriptTypes []string
}

// DefaultOptions returns the default extraction options
func DefaultOptions() Options {
	return Options{
		TemplateTags: []string{"pad"},
		ScriptTypes:  []string{"text/x-pad"},
	}
}

// IsSupportedLanguage reports whether layouts can be extracted from the language
func IsSupportedLanguage(languageID string) bool {
	_, ok := languages[languageID]
	return ok
}

// Extract finds every layout in a document, in source order
func Extract(languageID, content string, opts Options) []*Embedded {
	host, ok := languages[languageID]
	if !ok {
		return nil
	}

	switch host {
	case Document:
		return []*Embedded{FromSource(Document, LanguagePad, content, 0, 0)}

	case Template:
		p := js.AcquireParser()
		defer js.ReleaseParser(p)

		var out []*Embedded
		for _, tmpl := range p.ParseTemplates(content, opts.TemplateTags) {
			if tmpl.Dynamic {
				log.Debug("Skipping %s template at %d:%d with substitutions", tmpl.Tag, tmpl.Line+1, tmpl.Col)
				continue
			}
			out = append(out, FromSource(Template, tmpl.Tag, tmpl.Content, int(tmpl.Line), int(tmpl.Col)))
		}
		return out

	case Script:
		p := html.AcquireParser()
		defer html.ReleaseParser(p)

		var out []*Embedded
		for _, s := range p.ParseScripts(content, opts.ScriptTypes) {
			out = append(out, FromSource(Script, s.Type, s.Content, int(s.Line), int(s.Col)))
		}
		return out

	case GridAreas:
		p := css.AcquireParser()
		defer css.ReleaseParser(p)

		all, err := p.ParseAreas(content)
		if err != nil {
			log.Warn("Failed to parse CSS: %v", err)
			return nil
		}
		out := make([]*Embedded, 0, len(all))
		for _, areas := range all {
			out = append(out, fromAreas(areas))
		}
		return out
	}

	return nil
}

func fromAreas(areas css.Areas) *Embedded {
	first, last := areas.Rows[0], areas.Rows[len(areas.Rows)-1]
	e := &Embedded{
		Host:  GridAreas,
		Tag:   css.AreasProperty,
		Start: layout.Span{Line: int(first.Line), Start: int(first.Col), End: int(first.Col)},
		End:   layout.Span{Line: int(last.Line), Start: int(last.Col) + len(last.Content), End: int(last.Col) + len(last.Content)},
	}

	g, err := areas.Grid()
	if err != nil {
		e.Errors = []*layout.LayoutError{err}
		return e
	}
	e.Layout = layout.Merge(g)
	return e
}

// ClosePools releases every pooled tree-sitter parser
func ClosePools() {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
}
