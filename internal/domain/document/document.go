package document

import (
	"slices"

	"github.com/kailas-cloud/esdsl/internal/domain/mapping/field"
)

// Document is a dynamic attribute store backed by a string-keyed map.
// Any name may be set; names declared as object or nested fields additionally resolve to
// nested documents. A Document is not safe for concurrent mutation.
type Document struct {
	docType *DocType
	props   field.Properties
	values  map[string]any
	nested  map[string]*Document
	order   []string
}

func newDocument(t *DocType, props field.Properties, backing map[string]any) *Document {
	return &Document{
		docType: t,
		props:   props,
		values:  backing,
		nested:  make(map[string]*Document),
		order:   backingOrder(props, backing),
	}
}

// backingOrder orders the keys of a source map: declared fields in mapping order, then the
// undeclared keys sorted.
func backingOrder(props field.Properties, backing map[string]any) []string {
	order := make([]string, 0, len(backing))
	for _, name := range props.Names() {
		if _, ok := backing[name]; ok {
			order = append(order, name)
		}
	}
	declared := len(order)
	for name := range backing {
		if _, ok := props.Get(name); !ok {
			order = append(order, name)
		}
	}
	slices.Sort(order[declared:])
	return order
}

func (d *Document) track(name string) {
	if !slices.Contains(d.order, name) {
		d.order = append(d.order, name)
	}
}

// Type returns the document type, or nil for nested documents.
func (d *Document) Type() *DocType { return d.docType }

// Properties returns the field definitions describing this level of the document.
func (d *Document) Properties() field.Properties { return d.props }

// Set stores value under name verbatim.
func (d *Document) Set(name string, value any) {
	delete(d.nested, name)
	d.track(name)
	if doc, ok := value.(*Document); ok {
		delete(d.values, name)
		d.nested[name] = doc
		return
	}
	d.values[name] = value
}

// Get returns the value stored under name, or nil.
// Object and nested fields holding nothing or a map resolve to their nested document, see Object.
// Any other value is returned as stored.
func (d *Document) Get(name string) any {
	if f, ok := d.props.Get(name); ok && f.IsObject() {
		switch d.values[name].(type) {
		case nil, map[string]any:
			return d.Object(name)
		}
	}
	if doc, ok := d.nested[name]; ok {
		return doc
	}
	return d.values[name]
}

// Object returns the nested document stored under name, creating it on first access.
// Every call for the same name returns the same *Document until the name is Set or Deleted.
// A raw map already stored under name becomes the nested document's backing store.
// Returns nil if name is declared without properties or holds a non-map value.
func (d *Document) Object(name string) *Document {
	if doc, ok := d.nested[name]; ok {
		return doc
	}

	f, declared := d.props.Get(name)
	if declared && !f.IsObject() {
		return nil
	}

	var backing map[string]any
	switch v := d.values[name].(type) {
	case nil:
		backing = make(map[string]any)
	case map[string]any:
		backing = v
	default:
		return nil
	}

	doc := newDocument(nil, f.Properties(), backing)
	d.nested[name] = doc
	d.track(name)
	return doc
}

// Has reports whether name holds a value.
func (d *Document) Has(name string) bool {
	if _, ok := d.nested[name]; ok {
		return true
	}
	_, ok := d.values[name]
	return ok
}

// Delete removes name.
func (d *Document) Delete(name string) {
	delete(d.nested, name)
	delete(d.values, name)
	d.order = slices.DeleteFunc(d.order, func(n string) bool { return n == name })
}

// Fields returns the names holding a value in the order they were first set. Keys of the
// source map come first: declared fields in mapping order, then the rest sorted. Keys written
// to the source map behind the document's back are appended sorted.
func (d *Document) Fields() []string {
	names := make([]string, 0, len(d.order))
	seen := make(map[string]bool, len(d.order))
	for _, name := range d.order {
		if d.Has(name) {
			names = append(names, name)
			seen[name] = true
		}
	}
	extra := len(names)
	for name := range d.values {
		if !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range d.nested {
		if !seen[name] {
			names = append(names, name)
		}
	}
	slices.Sort(names[extra:])
	return names
}

// ToDict serializes the set attributes, turning nested documents into plain maps.
// Leaf values are passed through unchanged. Nested documents with nothing set are omitted.
func (d *Document) ToDict() map[string]any {
	out := make(map[string]any, len(d.values)+len(d.nested))
	for name, v := range d.values {
		if _, ok := d.nested[name]; ok {
			continue
		}
		out[name] = serialize(v)
	}
	for name, doc := range d.nested {
		if inner := doc.ToDict(); len(inner) > 0 {
			out[name] = inner
		}
	}
	return out
}

func serialize(v any) any {
	switch val := v.(type) {
	case *Document:
		return val.ToDict()
	case []*Document:
		out := make([]any, len(val))
		for i, doc := range val {
			out[i] = doc.ToDict()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = serialize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = serialize(item)
		}
		return out
	default:
		return v
	}
}
