package html

// Script is the body of a <script> element with a matching type attribute
type Script struct {
	// Type is the value of the type attribute
	Type string
	// Content is the raw text of the element
	Content string
	// Line and Col locate the first byte of Content (0-indexed, Col in bytes)
	Line uint
	Col  uint
}
