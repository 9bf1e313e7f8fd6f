package js

// Template is a tagged template literal found in JS/TS source
type Template struct {
	// Tag is the template tag function name
	Tag string
	// Content is the raw text between the backticks. Escaped backticks are
	// rewritten as " `" so that byte offsets match the source.
	Content string
	// Line and Col locate the first byte of Content (0-indexed, Col in bytes)
	Line uint
	Col  uint
	// Dynamic is set when the template has ${...} substitutions
	Dynamic bool
}
