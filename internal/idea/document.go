// Package idea loads, edits and saves PhpStorm's persisted XML configuration
// (.idea/*.iml module files and .idea/workspace.xml).
package idea

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"

	"github.com/beevik/etree"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
)

const (
	xmlDeclTarget = "xml"
	xmlDeclInst   = `version="1.0" encoding="UTF-8"`
	indentSpaces  = 2
)

// Document is one PhpStorm XML file loaded for a single pass. It tracks
// whether any mutation happened so unchanged files are never rewritten.
type Document struct {
	Path string

	doc      *etree.Document
	modified bool
}

// Load reads and parses the XML document at path. A missing file yields an
// error matching ErrNotFound; unreadable or malformed content, including a
// document without a root element, yields one matching ErrParse.
func Load(fsys filesystem.FileSystem, path string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Kind: ErrNotFound, Err: err}
		}
		return nil, &LoadError{Path: path, Kind: ErrParse, Err: err}
	}

	return Parse(path, data)
}

// Parse builds a Document from raw bytes.
func Parse(path string, data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, &LoadError{Path: path, Kind: ErrParse, Err: err}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &LoadError{Path: path, Kind: ErrParse, Err: err}
	}
	if doc.Root() == nil {
		return nil, &LoadError{Path: path, Kind: ErrParse, Err: errors.New("no root element")}
	}

	return &Document{Path: path, doc: doc}, nil
}

// checkWellFormed runs the strict decoder over the whole input; it rejects
// unclosed and mismatched tags that the tree builder tolerates.
func checkWellFormed(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// MarkModified flags the document for writing.
func (d *Document) MarkModified() {
	d.modified = true
}

// Modified reports whether a mutation has been applied since load.
func (d *Document) Modified() bool {
	return d.modified
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	dryRun bool
}

// DryRun makes Save report the would-be write without touching the file.
func DryRun(enabled bool) SaveOption {
	return func(o *saveOptions) {
		o.dryRun = enabled
	}
}

// Save writes the document back when it was modified and reports whether a
// write happened (or would have, in dry-run mode).
func (d *Document) Save(fsys filesystem.FileSystem, opts ...SaveOption) (bool, error) {
	if !d.modified {
		return false, nil
	}

	options := saveOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	data, err := d.Bytes()
	if err != nil {
		return false, err
	}

	if options.dryRun {
		return true, nil
	}

	if err := fsys.WriteFile(d.Path, data, 0644); err != nil {
		return false, &SaveError{Path: d.Path, Err: err}
	}

	d.modified = false
	return true, nil
}

// Bytes serializes the document with two-space indentation and an XML
// declaration.
func (d *Document) Bytes() ([]byte, error) {
	ensureDeclaration(d.doc)
	d.doc.Indent(indentSpaces)
	// newlines and tabs in attribute values must stay character references,
	// parsers normalize raw ones to spaces
	d.doc.WriteSettings.CanonicalAttrVal = true

	data, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, &SaveError{Path: d.Path, Err: err}
	}
	return data, nil
}

func ensureDeclaration(doc *etree.Document) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == xmlDeclTarget {
			return
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst(xmlDeclTarget, xmlDeclInst))
}

// SaveError is returned when a modified document cannot be written
type SaveError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *SaveError) Error() string {
	return "failed to write " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *SaveError) Unwrap() error {
	return e.Err
}
