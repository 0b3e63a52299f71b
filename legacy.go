// FILE: lixenwraith/settings/legacy.go
package settings

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/encoding/ianaindex"
)

// LegacyOptions configures a LegacyProvider.
type LegacyOptions struct {
	// Path of the legacy XML settings file (required). See DefaultLegacyPath.
	Path string

	// Optional makes a missing file load as an empty table instead of failing
	Optional bool

	// ReloadOnChange reloads the provider when the file changes
	ReloadOnChange bool

	// SkipMalformed skips add/remove nodes lacking required attributes and
	// logs a warning instead of failing the load
	SkipMalformed bool

	// Watch tunes the watcher used when ReloadOnChange is set
	Watch WatchOptions
}

// DefaultLegacyOptions returns options for an optional, unwatched legacy file at path.
func DefaultLegacyOptions(path string) LegacyOptions {
	return LegacyOptions{
		Path:     path,
		Optional: true,
		Watch:    DefaultWatchOptions(),
	}
}

// LegacyProvider adapts an XML settings file with appSettings and
// connectionStrings sections to flat keys. Connection strings are stored
// under ConnectionStrings:<name>. Files may declare UTF-8, US-ASCII or any
// IANA-registered single-byte encoding such as windows-1252 or ISO-8859-1.
type LegacyProvider struct {
	snapshot
	opts   LegacyOptions
	loadMu sync.Mutex
}

// NewLegacyProvider creates a legacy provider. The file is not read until Load.
func NewLegacyProvider(opts LegacyOptions) (*LegacyProvider, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: legacy config path is empty", ErrInvalidArgument)
	}
	p := &LegacyProvider{opts: opts}
	p.publish(nil)
	return p, nil
}

// Name returns "legacy:<path>".
func (p *LegacyProvider) Name() string {
	return "legacy:" + p.opts.Path
}

// Path returns the file path.
func (p *LegacyProvider) Path() string {
	return p.opts.Path
}

func (p *LegacyProvider) watchTarget() (string, WatchOptions, bool) {
	return p.opts.Path, p.opts.Watch, p.opts.ReloadOnChange
}

// Load reads the file and publishes a freshly built table. Loads are
// serialised; on failure the previous table stays published.
func (p *LegacyProvider) Load() error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	data, err := readConfigFile(p.opts.Path, 0)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && p.opts.Optional {
			p.publish(nil)
			return nil
		}
		return &LoadError{Provider: "legacy", Path: p.opts.Path, Err: err}
	}

	table, err := ParseLegacy(bytes.NewReader(data), p.opts.SkipMalformed)
	if err != nil {
		return &LoadError{Provider: "legacy", Path: p.opts.Path, Err: err}
	}

	p.publish(table.Map())
	return nil
}

// Table is an insertion-ordered string table.
type Table struct {
	keys   []string
	values map[string]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Set stores value at key. An existing key keeps its position.
func (t *Table) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Delete removes key if present.
func (t *Table) Delete(key string) {
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (t *Table) Clear() {
	t.keys = nil
	t.values = make(map[string]string)
}

// Get returns the value at key.
func (t *Table) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Children returns the immediate child names under path.
func (t *Table) Children(path string) []string {
	return childNames(t.keys, path)
}

// Keys returns keys in insertion order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.keys)
}

// Map returns a copy of the entries.
func (t *Table) Map() map[string]string {
	m := make(map[string]string, len(t.values))
	for k, v := range t.values {
		m[k] = v
	}
	return m
}

// xmlElement is a generic element tree; text content is not needed.
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []xmlElement `xml:",any"`
}

func (e *xmlElement) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// legacySection describes how one section maps its nodes to table keys.
type legacySection struct {
	name      string
	keyAttr   string
	valueAttr string
	keyPrefix string
}

var legacySections = []legacySection{
	{name: "appSettings", keyAttr: "key", valueAttr: "value"},
	{name: "connectionStrings", keyAttr: "name", valueAttr: "connectionString", keyPrefix: ConnectionStringsPrefix},
}

// ParseLegacy parses a legacy settings document. The first appSettings and
// the first connectionStrings section under the configuration root are
// applied in document order. A clear node empties the whole table built so
// far, including entries from the other section.
func ParseLegacy(r io.Reader, skipMalformed bool) (*Table, error) {
	root, err := decodeLegacyRoot(r)
	if err != nil {
		return nil, err
	}

	table := NewTable()
	if root.XMLName.Local != "configuration" {
		return table, nil
	}

	applied := make(map[string]bool, len(legacySections))
	for i := range root.Children {
		sectionElem := &root.Children[i]
		for _, sec := range legacySections {
			if sectionElem.XMLName.Local != sec.name || applied[sec.name] {
				continue
			}
			applied[sec.name] = true
			if err := applyLegacySection(table, sectionElem, sec, skipMalformed); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func applyLegacySection(table *Table, elem *xmlElement, sec legacySection, skipMalformed bool) error {
	for i := range elem.Children {
		node := &elem.Children[i]
		op := node.XMLName.Local

		switch {
		case strings.EqualFold(op, "add"):
			key, hasKey := node.attr(sec.keyAttr)
			value, hasValue := node.attr(sec.valueAttr)
			if !hasKey || !hasValue {
				missing := sec.keyAttr
				if hasKey {
					missing = sec.valueAttr
				}
				if err := malformedNode(sec, op, missing, skipMalformed); err != nil {
					return err
				}
				continue
			}
			table.Set(sec.keyPrefix+key, value)

		case strings.EqualFold(op, "remove"):
			key, hasKey := node.attr(sec.keyAttr)
			if !hasKey {
				if err := malformedNode(sec, op, sec.keyAttr, skipMalformed); err != nil {
					return err
				}
				continue
			}
			table.Delete(sec.keyPrefix + key)

		case strings.EqualFold(op, "clear"):
			table.Clear()
		}
	}
	return nil
}

func malformedNode(sec legacySection, op, attr string, skip bool) error {
	err := fmt.Errorf("%w: <%s> in %s requires '%s'", ErrMissingAttribute, op, sec.name, attr)
	if !skip {
		return err
	}
	pkgLogger().WithField("section", sec.name).WithField("node", op).Warn(err.Error())
	return nil
}

// legacyCharsetReader transcodes non-UTF-8 documents named by the XML
// declaration. encoding/xml handles utf-8 itself.
func legacyCharsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "us-ascii", "ascii":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// decodeLegacyRoot decodes the single root element, rejecting trailing content.
func decodeLegacyRoot(r io.Reader) (*xmlElement, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = legacyCharsetReader

	var root xmlElement
	if err := decoder.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, fmt.Errorf("%w: content after root element", ErrMalformedDocument)
			}
		default:
			return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedDocument)
		}
	}

	return &root, nil
}
