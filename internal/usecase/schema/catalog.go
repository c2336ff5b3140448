package schema

import (
	"fmt"

	"github.com/kailas-cloud/esdsl/internal/config"
	"github.com/kailas-cloud/esdsl/internal/domain"
	"github.com/kailas-cloud/esdsl/internal/domain/document"
	"github.com/kailas-cloud/esdsl/internal/domain/mapping/field"
)

// Catalog holds the document types compiled from configuration. It is read-only after Compile.
type Catalog struct {
	types     []*document.DocType
	byName    map[string]*document.DocType
	byDocType map[string]*document.DocType
}

// Compile turns schema declarations into document types.
// Parents may be declared after their children; unknown parents and cycles are rejected.
func Compile(schemas []config.SchemaConfig) (*Catalog, error) {
	c := &Catalog{
		byName:    make(map[string]*document.DocType, len(schemas)),
		byDocType: make(map[string]*document.DocType, len(schemas)),
	}
	decls := make(map[string]config.SchemaConfig, len(schemas))
	for _, s := range schemas {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: schema name is required", domain.ErrInvalidSchema)
		}
		if _, dup := decls[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate schema %q", domain.ErrInvalidSchema, s.Name)
		}
		decls[s.Name] = s
	}

	visiting := make(map[string]bool)
	var resolve func(name string) (*document.DocType, error)
	resolve = func(name string) (*document.DocType, error) {
		if dt, ok := c.byName[name]; ok {
			return dt, nil
		}
		s, ok := decls[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown schema %q", domain.ErrInvalidSchema, name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("%w: inheritance cycle through %q", domain.ErrInvalidSchema, name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		opts := make([]document.Option, 0, len(s.Fields)+2)
		if s.Extends != "" {
			parent, err := resolve(s.Extends)
			if err != nil {
				return nil, fmt.Errorf("schema %q extends: %w", name, err)
			}
			opts = append(opts, document.Extends(parent))
		}
		if s.DocType != "" {
			opts = append(opts, document.WithDocType(s.DocType))
		}
		for _, fc := range s.Fields {
			f, err := buildField(fc)
			if err != nil {
				return nil, fmt.Errorf("%w: schema %q: %w", domain.ErrInvalidSchema, name, err)
			}
			opts = append(opts, document.Field(fc.Name, f))
		}

		dt := document.Define(name, opts...)
		if err := dt.Mapping().Validate(); err != nil {
			return nil, fmt.Errorf("%w: schema %q: %w", domain.ErrInvalidSchema, name, err)
		}
		c.byName[name] = dt
		return dt, nil
	}

	for _, s := range schemas {
		dt, err := resolve(s.Name)
		if err != nil {
			return nil, err
		}
		if other, dup := c.byDocType[dt.DocType()]; dup && other != dt {
			return nil, fmt.Errorf("%w: doc type %q used by %q and %q",
				domain.ErrInvalidSchema, dt.DocType(), other.Name(), dt.Name())
		}
		c.byDocType[dt.DocType()] = dt
		c.types = append(c.types, dt)
	}
	return c, nil
}

func buildField(fc config.FieldConfig) (field.Field, error) {
	t := field.Type(fc.Type)
	if t == "" && len(fc.Properties) > 0 {
		t = field.TypeObject
	}
	if !t.IsValid() {
		return field.Field{}, fmt.Errorf("field %q has unknown type %q", fc.Name, fc.Type)
	}
	if len(fc.Properties) > 0 && !t.HasProperties() {
		return field.Field{}, fmt.Errorf("field %q of type %q cannot have properties", fc.Name, t)
	}

	var props field.Properties
	if t.HasProperties() {
		sub := make([]field.Property, 0, len(fc.Properties))
		for _, child := range fc.Properties {
			f, err := buildField(child)
			if err != nil {
				return field.Field{}, fmt.Errorf("in %q: %w", fc.Name, err)
			}
			sub = append(sub, field.Prop(child.Name, f))
		}
		props = field.NewProperties(sub...)
	}
	return field.Reconstruct(t, fc.Options, props), nil
}

// Get returns a document type by declared name or by doc_type.
func (c *Catalog) Get(name string) (*document.DocType, error) {
	if dt, ok := c.byName[name]; ok {
		return dt, nil
	}
	if dt, ok := c.byDocType[name]; ok {
		return dt, nil
	}
	return nil, fmt.Errorf("%w: document type %q", domain.ErrNotFound, name)
}

// All returns the document types in declaration order.
func (c *Catalog) All() []*document.DocType {
	out := make([]*document.DocType, len(c.types))
	copy(out, c.types)
	return out
}

// Len returns the number of document types.
func (c *Catalog) Len() int { return len(c.types) }
