package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// AreasProperty is the declaration whose value is read as a layout
const AreasProperty = "grid-template-areas"

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
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
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseAreas finds every grid-template-areas declaration with at least one string row
func (p *Parser) ParseAreas(source string) ([]Areas, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	var result []Areas
	walk(tree.RootNode(), sourceBytes, &result)
	return result, nil
}

func walk(node *sitter.Node, source []byte, result *[]Areas) {
	if node == nil {
		return
	}

	if node.Kind() == "declaration" {
		if areas, ok := readDeclaration(node, source); ok {
			*result = append(*result, areas)
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), source, result)
	}
}

func readDeclaration(node *sitter.Node, source []byte) (Areas, bool) {
	var areas Areas
	isAreas := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			name := string(source[child.StartByte():child.EndByte()])
			isAreas = strings.EqualFold(name, AreasProperty)
		case "string_value":
			if row, ok := readString(child, source); ok {
				areas.Rows = append(areas.Rows, row)
			}
		}
	}

	if !isAreas || len(areas.Rows) == 0 {
		return Areas{}, false
	}
	pos := node.StartPosition()
	areas.Line, areas.Col = pos.Row, pos.Column
	return areas, true
}

// readString strips the quotes of a string_value node
func readString(node *sitter.Node, source []byte) (Row, bool) {
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) < 2 {
		return Row{}, false
	}
	quote := text[0]
	if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
		return Row{}, false
	}

	pos := node.StartPosition()
	return Row{
		Content: text[1 : len(text)-1],
		Line:    pos.Row,
		Col:     pos.Column + 1,
	}, true
}
