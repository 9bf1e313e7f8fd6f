package js

import (
	"fmt"
	"slices"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser finds tagged template literals in JS/TS source
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: (identifier) @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close releases the parser's tree-sitter resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseTemplates returns the templates tagged with one of tags, in source order
func (p *Parser) ParseTemplates(source string, tags []string) []Template {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var templates []Template
	matches := cursor.Matches(p.templateQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag string
		var node sitter.Node
		found := false

		for _, capture := range match.Captures {
			switch p.templateQuery.CaptureNames()[capture.Index] {
			case "tag":
				tag = string(sourceBytes[capture.Node.StartByte():capture.Node.EndByte()])
			case "template":
				node = capture.Node
				found = true
			}
		}

		if !found || !slices.Contains(tags, tag) {
			continue
		}
		templates = append(templates, newTemplate(tag, &node, sourceBytes))
	}

	return templates
}

// newTemplate reads the body of a template_string node
func newTemplate(tag string, node *sitter.Node, sourceBytes []byte) Template {
	start, end := node.StartByte()+1, node.EndByte()-1
	if end < start {
		end = start
	}

	dynamic := false
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "template_substitution" {
			dynamic = true
			break
		}
	}

	pos := node.StartPosition()
	return Template{
		Tag:     tag,
		Content: unescapeBackticks(sourceBytes[start:end]),
		Line:    pos.Row,
		Col:     pos.Column + 1,
		Dynamic: dynamic,
	}
}

// unescapeBackticks rewrites \` as " `", keeping every other byte in place
func unescapeBackticks(raw []byte) string {
	out := slices.Clone(raw)
	for i := 0; i+1 < len(out); i++ {
		if out[i] != '\\' {
			continue
		}
		if out[i+1] == '`' {
			out[i] = ' '
		}
		i++
	}
	return string(out)
}
