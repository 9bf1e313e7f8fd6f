package css

// Row is one quoted string of a grid-template-areas value
type Row struct {
	// Content is the string without its quotes
	Content string
	// Line and Col locate the first byte of Content (0-indexed, Col in bytes)
	Line uint
	Col  uint
}

// Areas is one grid-template-areas declaration
type Areas struct {
	Rows []Row
	// Line and Col locate the start of the declaration
	Line uint
	Col  uint
}
