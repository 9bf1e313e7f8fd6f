package documents

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/internal/position"
)

// Document represents a text document being managed by the language server
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	mu        sync.Mutex
	text      *position.Text
	layouts   []*parser.Embedded
	layoutKey string
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Version returns the document's version
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// Text returns the line index of the current content
func (d *Document) Text() *position.Text {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.text == nil {
		d.text = position.NewText(d.content)
	}
	return d.text
}

// Layouts returns the layouts in the document as read under languageID.
// The result is cached until the content or the options change.
func (d *Document) Layouts(languageID string, opts parser.Options) []*parser.Embedded {
	key := layoutKey(languageID, opts)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.layouts != nil && d.layoutKey == key {
		return d.layouts
	}
	d.layouts = parser.Extract(languageID, d.content, opts)
	if d.layouts == nil {
		d.layouts = []*parser.Embedded{}
	}
	d.layoutKey = key
	return d.layouts
}

// LayoutAt returns the layout containing a line and byte column
func (d *Document) LayoutAt(languageID string, opts parser.Options, line, col int) *parser.Embedded {
	for _, e := range d.Layouts(languageID, opts) {
		if e.Contains(line, col) {
			return e
		}
	}
	return nil
}

// SetContent updates the document's content and version.
// Returns an error if the provided version is older than the current document version,
// preventing stale updates from being applied.
func (d *Document) SetContent(content string, version int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.text = nil
	d.layouts = nil
	return nil
}

// Invalidate drops the cached layouts, so the next read re-extracts them
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts = nil
}

func layoutKey(languageID string, opts parser.Options) string {
	return languageID + "\x00" + strings.Join(opts.TemplateTags, ",") + "\x00" + strings.Join(opts.ScriptTypes, ",")
}
