package layout

import "fmt"

// Syntax markers of the layout grammar
const (
	RowSeparator    = "\n"
	ColumnSeparator = ","
	NoMergeMarker   = "`"
	ImagePrefix     = "IMG_"
)

// Kind identifies the widget a cell becomes
type Kind int

const (
	// Button is any cell that is not quoted, bracketed or an image, including empty cells
	Button Kind = iota
	// Label is a cell wrapped in single or double quotes
	Label
	// TextBox is a cell wrapped in square brackets
	TextBox
	// Image is a cell starting with ImagePrefix
	Image
)

var kindNames = [...]string{
	Button:  "button",
	Label:   "label",
	TextBox: "textbox",
	Image:   "image",
}

// Kinds lists every kind in declaration order
var Kinds = []Kind{Button, Label, TextBox, Image}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name produced by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}
