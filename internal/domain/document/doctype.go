package document

import (
	"github.com/kailas-cloud/esdsl/internal/domain/mapping"
	"github.com/kailas-cloud/esdsl/internal/domain/mapping/field"
)

// Meta is the metadata resolved for a document type at definition time.
type Meta struct {
	DocType string
	Mapping mapping.Mapping
}

// DocType describes a class of documents. It is immutable once defined.
type DocType struct {
	name     string
	parent   *DocType
	declared field.Properties
	meta     Meta
}

type definition struct {
	parent  *DocType
	docType string
	fields  []field.Property
}

// Option configures a document type definition.
type Option func(*definition)

// Field declares a field on the document type.
func Field(name string, f field.Field) Option {
	return func(d *definition) { d.fields = append(d.fields, field.Prop(name, f)) }
}

// Extends makes the new type inherit the parent's mapping.
func Extends(parent *DocType) Option {
	return func(d *definition) { d.parent = parent }
}

// WithDocType overrides the doc_type derived from the type name.
func WithDocType(docType string) Option {
	return func(d *definition) { d.docType = docType }
}

// Define creates a document type named name.
//
// The mapping is the parent's mapping (if any) with this type's own fields merged on top:
// same-named fields are overridden in place and inherited fields are kept. The doc_type is the
// WithDocType override or else the snake_case form of name; it is never inherited.
func Define(name string, opts ...Option) *DocType {
	var def definition
	for _, opt := range opts {
		opt(&def)
	}

	docType := def.docType
	if docType == "" {
		docType = SnakeCase(name)
	}

	declared := field.NewProperties(def.fields...)
	var inherited mapping.Mapping
	if def.parent != nil {
		inherited = def.parent.meta.Mapping
	}

	return &DocType{
		name:     name,
		parent:   def.parent,
		declared: declared,
		meta: Meta{
			DocType: docType,
			Mapping: inherited.Merge(docType, declared),
		},
	}
}

// Name returns the type name as declared.
func (t *DocType) Name() string { return t.name }

// Meta returns the resolved metadata.
func (t *DocType) Meta() Meta { return t.meta }

// DocType returns the resolved doc_type.
func (t *DocType) DocType() string { return t.meta.DocType }

// Mapping returns the merged mapping.
func (t *DocType) Mapping() mapping.Mapping { return t.meta.Mapping }

// Declared returns the fields declared by this type itself, without inherited ones.
func (t *DocType) Declared() field.Properties { return t.declared }

// Parent returns the type this one extends, or nil.
func (t *DocType) Parent() *DocType { return t.parent }

// Extends reports whether t is other or inherits from it.
func (t *DocType) Extends(other *DocType) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// New creates a document with a copy of values as its initial attributes.
func (t *DocType) New(values map[string]any) *Document {
	backing := make(map[string]any, len(values))
	for k, v := range values {
		backing[k] = v
	}
	return newDocument(t, t.meta.Mapping.Properties(), backing)
}

// FromSource creates a document backed directly by source (e.g. a decoded _source).
// Writes through the document are visible in source.
func (t *DocType) FromSource(source map[string]any) *Document {
	if source == nil {
		source = make(map[string]any)
	}
	return newDocument(t, t.meta.Mapping.Properties(), source)
}
