package mapping

import "github.com/kailas-cloud/esdsl/internal/domain/mapping/field"

// Builder is a fluent builder for mappings.
type Builder struct {
	docType string
	props   []field.Property
}

// NewBuilder starts building a mapping for docType.
func NewBuilder(docType string) *Builder {
	return &Builder{docType: docType}
}

// Field adds a field of any type.
func (b *Builder) Field(name string, f field.Field) *Builder {
	b.props = append(b.props, field.Prop(name, f))
	return b
}

// String adds a string field.
func (b *Builder) String(name string, opts ...field.Option) *Builder {
	return b.Field(name, field.String(opts...))
}

// Date adds a date field.
func (b *Builder) Date(name string, opts ...field.Option) *Builder {
	return b.Field(name, field.Date(opts...))
}

// Integer adds an integer field.
func (b *Builder) Integer(name string, opts ...field.Option) *Builder {
	return b.Field(name, field.Integer(opts...))
}

// Object adds an object field with sub-properties.
func (b *Builder) Object(name string, props ...field.Property) *Builder {
	return b.Field(name, field.Object(field.NewProperties(props...)))
}

// Nested adds a nested field with sub-properties.
func (b *Builder) Nested(name string, props ...field.Property) *Builder {
	return b.Field(name, field.Nested(field.NewProperties(props...)))
}

// Build returns the mapping.
func (b *Builder) Build() Mapping {
	return New(b.docType, field.NewProperties(b.props...))
}

// BuildValidated validates and returns the mapping.
func (b *Builder) BuildValidated() (Mapping, error) {
	m := b.Build()
	if err := m.Validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}
