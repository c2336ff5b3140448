package field

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Type is the mapping type tag of a field.
type Type string

// Field type tags.
const (
	TypeString   Type = "string"
	TypeText     Type = "text"
	TypeKeyword  Type = "keyword"
	TypeInteger  Type = "integer"
	TypeLong     Type = "long"
	TypeShort    Type = "short"
	TypeByte     Type = "byte"
	TypeFloat    Type = "float"
	TypeDouble   Type = "double"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeBinary   Type = "binary"
	TypeIP       Type = "ip"
	TypeGeoPoint Type = "geo_point"
	// TypeObject holds a nested property tree stored inline.
	TypeObject Type = "object"
	// TypeNested holds a nested property tree indexed as separate documents.
	TypeNested Type = "nested"
)

var knownTypes = map[Type]bool{
	TypeString: true, TypeText: true, TypeKeyword: true,
	TypeInteger: true, TypeLong: true, TypeShort: true, TypeByte: true,
	TypeFloat: true, TypeDouble: true, TypeBoolean: true, TypeDate: true,
	TypeBinary: true, TypeIP: true, TypeGeoPoint: true,
	TypeObject: true, TypeNested: true,
}

// IsValid reports whether t is a known type tag.
func (t Type) IsValid() bool { return knownTypes[t] }

// HasProperties reports whether fields of this type carry a nested property tree.
func (t Type) HasProperties() bool { return t == TypeObject || t == TypeNested }

const (
	keyType       = "type"
	keyProperties = "properties"
)

// Field is an immutable value object describing how one document field is mapped.
type Field struct {
	fieldType  Type
	options    map[string]any
	properties Properties
}

// Option sets a mapping option on a field.
type Option func(*Field)

// With sets an arbitrary option passed through verbatim beside "type".
func With(key string, value any) Option {
	return func(f *Field) {
		if f.options == nil {
			f.options = make(map[string]any)
		}
		f.options[key] = value
	}
}

// Index sets the indexing mode (e.g. "not_analyzed", "no").
func Index(mode string) Option { return With("index", mode) }

// Analyzer sets the analyzer name.
func Analyzer(name string) Option { return With("analyzer", name) }

// Format sets the date format.
func Format(format string) Option { return With("format", format) }

// Store sets whether the field value is stored separately.
func Store(store bool) Option { return With("store", store) }

// Boost sets the index-time boost.
func Boost(boost float64) Option { return With("boost", boost) }

// New creates a field of the given type.
func New(t Type, opts ...Option) Field {
	f := Field{fieldType: t}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Reconstruct creates a Field from already decoded parts (configuration hydration).
func Reconstruct(t Type, options map[string]any, props Properties) Field {
	return Field{fieldType: t, options: maps.Clone(options), properties: props}
}

// String creates a string field.
func String(opts ...Option) Field { return New(TypeString, opts...) }

// Text creates a text field.
func Text(opts ...Option) Field { return New(TypeText, opts...) }

// Keyword creates a keyword field.
func Keyword(opts ...Option) Field { return New(TypeKeyword, opts...) }

// Integer creates an integer field.
func Integer(opts ...Option) Field { return New(TypeInteger, opts...) }

// Long creates a long field.
func Long(opts ...Option) Field { return New(TypeLong, opts...) }

// Float creates a float field.
func Float(opts ...Option) Field { return New(TypeFloat, opts...) }

// Double creates a double field.
func Double(opts ...Option) Field { return New(TypeDouble, opts...) }

// Boolean creates a boolean field.
func Boolean(opts ...Option) Field { return New(TypeBoolean, opts...) }

// Date creates a date field.
func Date(opts ...Option) Field { return New(TypeDate, opts...) }

// IP creates an ip field.
func IP(opts ...Option) Field { return New(TypeIP, opts...) }

// GeoPoint creates a geo_point field.
func GeoPoint(opts ...Option) Field { return New(TypeGeoPoint, opts...) }

// Object creates an object field with the given sub-properties.
func Object(props Properties, opts ...Option) Field {
	f := New(TypeObject, opts...)
	f.properties = props
	return f
}

// Nested creates a nested field with the given sub-properties.
func Nested(props Properties, opts ...Option) Field {
	f := New(TypeNested, opts...)
	f.properties = props
	return f
}

// Type returns the type tag.
func (f Field) Type() Type { return f.fieldType }

// Option returns a single option value.
func (f Field) Option(key string) (any, bool) {
	v, ok := f.options[key]
	return v, ok
}

// Options returns a copy of the field options.
func (f Field) Options() map[string]any { return maps.Clone(f.options) }

// Properties returns the sub-properties of an object or nested field.
func (f Field) Properties() Properties { return f.properties }

// IsObject reports whether the field holds a nested property tree.
func (f Field) IsObject() bool { return f.fieldType.HasProperties() }

// ToDict returns the wire form {"type": tag, ...options[, "properties": {...}]}.
func (f Field) ToDict() map[string]any {
	d := make(map[string]any, len(f.options)+2)
	for k, v := range f.options {
		d[k] = v
	}
	d[keyType] = string(f.fieldType)
	if f.IsObject() {
		d[keyProperties] = f.properties.ToDict()
	} else {
		delete(d, keyProperties)
	}
	return d
}

// MarshalJSON emits "type" first, options in key order, then "properties".
func (f Field) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, keyType, string(f.fieldType), true); err != nil {
		return nil, err
	}
	for _, k := range slices.Sorted(maps.Keys(f.options)) {
		if k == keyType || k == keyProperties {
			continue
		}
		if err := writeMember(&buf, k, f.options[k], false); err != nil {
			return nil, err
		}
	}
	if f.IsObject() {
		if err := writeMember(&buf, keyProperties, f.properties, false); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
