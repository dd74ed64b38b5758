package documents

import (
	"fmt"
	"slices"
	"strings"
)

// Document is an open stylesheet as last synchronized by the client.
type Document struct {
	uri        string
	languageID string
	content    string
	version    int
	lines      []string
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	d := &Document{uri: uri, languageID: languageID}
	d.set(content, version)
	return d
}

func (d *Document) set(content string, version int) {
	d.content = content
	d.version = version
	d.lines = strings.Split(content, "\n")
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
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line n without its terminator. A trailing carriage return
// is dropped so CRLF documents match like LF ones.
func (d *Document) Line(n int) (string, bool) {
	if n < 0 || n >= len(d.lines) {
		return "", false
	}
	return strings.TrimSuffix(d.lines[n], "\r"), true
}

// InLanguages reports whether the document's language is one of languages.
// Comparison ignores case.
func (d *Document) InLanguages(languages []string) bool {
	return slices.ContainsFunc(languages, func(lang string) bool {
		return strings.EqualFold(lang, d.languageID)
	})
}

// SetContent replaces the content. Updates older than the current version
// are rejected.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.set(content, version)
	return nil
}
