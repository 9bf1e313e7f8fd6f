package html

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser finds layout script blocks in HTML
type Parser struct {
	parser      *sitter.Parser
	scriptQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		scriptQuery, qerr := sitter.NewQuery(htmlLang, `(script_element) @script`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile script query: %v", qerr))
		}

		return &Parser{
			parser:      parser,
			scriptQuery: scriptQuery,
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
	if p.scriptQuery != nil {
		p.scriptQuery.Close()
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

// ParseScripts returns the script elements whose type attribute is one of
// types (compared case-insensitively), in source order
func (p *Parser) ParseScripts(source string, types []string) []Script {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var scripts []Script
	matches := cursor.Matches(p.scriptQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			script, ok := readScript(&capture.Node, sourceBytes)
			if !ok {
				continue
			}
			if slices.ContainsFunc(types, func(t string) bool { return strings.EqualFold(t, script.Type) }) {
				scripts = append(scripts, script)
			}
		}
	}

	return scripts
}

// readScript extracts the type attribute and body of a script_element.
// Elements without a type or without a body are skipped.
func readScript(node *sitter.Node, source []byte) (Script, bool) {
	var script Script
	hasBody := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "start_tag":
			script.Type = typeAttribute(child, source)
		case "raw_text":
			if child.EndByte() == child.StartByte() {
				continue
			}
			pos := child.StartPosition()
			script.Content = string(source[child.StartByte():child.EndByte()])
			script.Line = pos.Row
			script.Col = pos.Column
			hasBody = true
		}
	}

	return script, hasBody && script.Type != ""
}

func typeAttribute(startTag *sitter.Node, source []byte) string {
	for i := uint(0); i < startTag.ChildCount(); i++ {
		attr := startTag.Child(i)
		if attr.Kind() != "attribute" {
			continue
		}

		var name, value string
		for j := uint(0); j < attr.ChildCount(); j++ {
			part := attr.Child(j)
			switch part.Kind() {
			case "attribute_name":
				name = string(source[part.StartByte():part.EndByte()])
			case "attribute_value":
				value = string(source[part.StartByte():part.EndByte()])
			case "quoted_attribute_value":
				for k := uint(0); k < part.ChildCount(); k++ {
					if v := part.Child(k); v.Kind() == "attribute_value" {
						value = string(source[v.StartByte():v.EndByte()])
					}
				}
			}
		}

		if strings.EqualFold(name, "type") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
