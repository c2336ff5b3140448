package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/esdsl/internal/domain/mapping/field"
)

// Mapping is the schema of one document type: a doc_type name owning a property tree.
type Mapping struct {
	docType    string
	properties field.Properties
}

// New creates a Mapping.
func New(docType string, props field.Properties) Mapping {
	return Mapping{docType: docType, properties: props}
}

// DocType returns the document type name.
func (m Mapping) DocType() string { return m.docType }

// Properties returns the top-level property tree.
func (m Mapping) Properties() field.Properties { return m.properties }

// Field resolves a field by name or dotted path.
func (m Mapping) Field(path string) (field.Field, bool) { return m.properties.Lookup(path) }

// Merge returns a copy of m renamed to docType with overlay fields applied on top.
func (m Mapping) Merge(docType string, overlay field.Properties) Mapping {
	return Mapping{docType: docType, properties: m.properties.Merge(overlay)}
}

// ToDict returns {doc_type: {"properties": {...}}}.
func (m Mapping) ToDict() map[string]any {
	return map[string]any{
		m.docType: map[string]any{"properties": m.properties.ToDict()},
	}
}

// MarshalJSON emits the wire form keeping declaration order of fields.
func (m Mapping) MarshalJSON() ([]byte, error) {
	props, err := json.Marshal(m.properties)
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}
	name, err := json.Marshal(m.docType)
	if err != nil {
		return nil, fmt.Errorf("marshal doc type: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(name)
	buf.WriteString(`:{"properties":`)
	buf.Write(props)
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// Validate checks a mapping sourced from outside the program.
// Mappings declared in code are not validated.
func (m Mapping) Validate() error {
	if m.docType == "" {
		return errors.New("doc type is required")
	}
	if !IsValidIdentifier(m.docType) {
		return fmt.Errorf("doc type %q contains invalid characters", m.docType)
	}
	return validateProperties("", m.properties)
}

func validateProperties(prefix string, props field.Properties) error {
	for name, f := range props.All() {
		path := prefix + name
		if name == "" {
			return fmt.Errorf("empty field name under %q", prefix)
		}
		if !IsValidIdentifier(name) {
			return fmt.Errorf("field name %q contains invalid characters", path)
		}
		if !f.Type().IsValid() {
			return fmt.Errorf("field %q has unknown type %q", path, f.Type())
		}
		if f.IsObject() {
			if err := validateProperties(path+".", f.Properties()); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_@-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-' || r == '@'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
