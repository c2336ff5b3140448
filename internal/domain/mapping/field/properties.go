package field

import (
	"bytes"
	"iter"
	"strings"
)

// Property pairs a field name with its definition.
type Property struct {
	Name  string
	Field Field
}

// Prop is shorthand for a Property literal.
func Prop(name string, f Field) Property { return Property{Name: name, Field: f} }

// Properties is an immutable, declaration-ordered set of named fields.
// The zero value is an empty set.
type Properties struct {
	names  []string
	fields map[string]Field
}

// NewProperties builds a property set in argument order.
// A repeated name replaces the earlier definition in its original position.
func NewProperties(props ...Property) Properties {
	p := Properties{
		names:  make([]string, 0, len(props)),
		fields: make(map[string]Field, len(props)),
	}
	for _, prop := range props {
		p.put(prop.Name, prop.Field)
	}
	return p
}

func (p *Properties) put(name string, f Field) {
	if _, ok := p.fields[name]; !ok {
		p.names = append(p.names, name)
	}
	p.fields[name] = f
}

// Len returns the number of fields.
func (p Properties) Len() int { return len(p.names) }

// Names returns field names in declaration order.
func (p Properties) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Get returns the field declared under name at this level.
func (p Properties) Get(name string) (Field, bool) {
	f, ok := p.fields[name]
	return f, ok
}

// Lookup resolves a dotted path ("inner.old_field") through object fields.
func (p Properties) Lookup(path string) (Field, bool) {
	head, rest, nested := strings.Cut(path, ".")
	f, ok := p.fields[head]
	if !ok || !nested {
		return f, ok
	}
	if !f.IsObject() {
		return Field{}, false
	}
	return f.properties.Lookup(rest)
}

// All iterates fields in declaration order.
func (p Properties) All() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, name := range p.names {
			if !yield(name, p.fields[name]) {
				return
			}
		}
	}
}

// Merge returns a new set holding p with overlay applied on top.
// Same-named fields are replaced in place, new fields are appended, nothing is removed.
func (p Properties) Merge(overlay Properties) Properties {
	out := Properties{
		names:  make([]string, 0, len(p.names)+len(overlay.names)),
		fields: make(map[string]Field, len(p.names)+len(overlay.names)),
	}
	for name, f := range p.All() {
		out.put(name, f)
	}
	for name, f := range overlay.All() {
		out.put(name, f)
	}
	return out
}

// ToDict returns {name: field.ToDict()} for every field.
func (p Properties) ToDict() map[string]any {
	d := make(map[string]any, len(p.names))
	for name, f := range p.All() {
		d[name] = f.ToDict()
	}
	return d
}

// MarshalJSON emits fields in declaration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if err := writeMember(&buf, name, p.fields[name], i == 0); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
