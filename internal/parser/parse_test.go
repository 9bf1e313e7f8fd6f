package parser_test

import (
	"testing"

	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedLanguage(t *testing.T) {
	for _, lang := range []string{"pad", "css", "html", "javascript", "javascriptreact", "typescript", "typescriptreact"} {
		t.Run(lang, func(t *testing.T) {
			assert.True(t, parser.IsSupportedLanguage(lang))
		})
	}

	for _, lang := range []string{"json", "go", ""} {
		t.Run("unsupported_"+lang, func(t *testing.T) {
			assert.False(t, parser.IsSupportedLanguage(lang))
			assert.Nil(t, parser.Extract(lang, "A,B", parser.DefaultOptions()))
		})
	}
}

func TestExtract_PadDocument(t *testing.T) {
	embedded := parser.Extract("pad", "7,8,9\n0,0,=\n", parser.DefaultOptions())
	require.Len(t, embedded, 1)

	e := embedded[0]
	assert.Equal(t, parser.Document, e.Host)
	require.NotNil(t, e.Layout)
	assert.Empty(t, e.Errors)
	assert.Equal(t, 5, e.Layout.Len())
	assert.Equal(t, layout.Span{Line: 2, Start: 0, End: 0}, e.End)

	tok, idx, ok := e.RegionAt(1, 2)
	require.True(t, ok)
	assert.Equal(t, "0", tok.Text)
	assert.Equal(t, 3, idx)
}

func TestExtract_PadDocumentErrors(t *testing.T) {
	embedded := parser.Extract("pad", "A,B\nC\n'x", parser.DefaultOptions())
	require.Len(t, embedded, 1)

	e := embedded[0]
	assert.Nil(t, e.Layout)
	assert.Nil(t, e.Grid())
	require.Len(t, e.Errors, 3)
	assert.Equal(t, layout.RaggedRows, e.Errors[0].Kind)
	assert.Equal(t, 1, e.Errors[0].Span.Line)
}

func TestExtract_Template(t *testing.T) {
	source := "const a = pad`Play,Play`;\nconst b = pad`${x}`;\nconst c = pad`\n  A, B\n  A, C`;\n"

	embedded := parser.Extract("typescript", source, parser.DefaultOptions())
	require.Len(t, embedded, 2, "templates with substitutions are skipped")

	first := embedded[0]
	assert.Equal(t, parser.Template, first.Host)
	assert.Equal(t, "pad", first.Tag)
	require.NotNil(t, first.Layout)
	assert.Equal(t, 1, first.Layout.Len())

	seed := first.Layout.Seed(0)
	assert.Equal(t, layout.Span{Line: 0, Start: 14, End: 18}, seed.Span)

	second := embedded[1]
	require.NotNil(t, second.Layout)
	tok, ok := second.TokenAt(4, 5)
	require.True(t, ok)
	assert.Equal(t, "C", tok.Text)
	assert.False(t, second.Contains(0, 3))
}

func TestExtract_CustomTags(t *testing.T) {
	opts := parser.Options{TemplateTags: []string{"grid"}}
	embedded := parser.Extract("javascript", "pad`A`; grid`B`;", opts)
	require.Len(t, embedded, 1)
	assert.Equal(t, "grid", embedded[0].Tag)
}

func TestExtract_HTMLScript(t *testing.T) {
	source := "<body>\n<script type=\"text/x-pad\">\n'Total',[Amount]\n</script>\n</body>"

	embedded := parser.Extract("html", source, parser.DefaultOptions())
	require.Len(t, embedded, 1)

	e := embedded[0]
	assert.Equal(t, parser.Script, e.Host)
	require.NotNil(t, e.Layout)
	regions := e.Layout.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, layout.Label, regions[0].Kind)
	assert.Equal(t, layout.TextBox, regions[1].Kind)

	seed := e.Layout.Seed(1)
	assert.Equal(t, layout.Span{Line: 2, Start: 8, End: 16}, seed.Span)
}

func TestExtract_CSSGridAreas(t *testing.T) {
	source := ".page {\n  grid-template-areas:\n    \"head head\"\n    \"nav  main\";\n}\n"

	embedded := parser.Extract("css", source, parser.DefaultOptions())
	require.Len(t, embedded, 1)

	e := embedded[0]
	assert.Equal(t, parser.GridAreas, e.Host)
	assert.False(t, e.Editable())
	require.NotNil(t, e.Layout)

	regions := e.Layout.Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, layout.Region{X0: 0, Y0: 0, X1: 1, Y1: 0, Kind: layout.Button, Text: "head"}, regions[0])

	tok, ok := e.TokenAt(3, 10)
	require.True(t, ok)
	assert.Equal(t, "main", tok.Text)
}

func TestExtract_CSSRaggedAreas(t *testing.T) {
	embedded := parser.Extract("css", `a { grid-template-areas: "x y" "z"; }`, parser.DefaultOptions())
	require.Len(t, embedded, 1)
	require.Len(t, embedded[0].Errors, 1)
	assert.ErrorIs(t, embedded[0].Errors[0], layout.ErrRaggedRows)
}

func TestHost_String(t *testing.T) {
	assert.Equal(t, "document", parser.Document.String())
	assert.Equal(t, "grid-template-areas", parser.GridAreas.String())
}
