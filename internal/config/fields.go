package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldConfig declares one mapping field.
type FieldConfig struct {
	Name       string
	Type       string
	Options    map[string]any
	Properties Fields
}

// Fields is a field list decoded from a YAML mapping in declaration order.
//
//	fields:
//	  title: {type: string, index: not_analyzed}
//	  name: string
//	  inner:
//	    type: object
//	    properties:
//	      old_field: string
type Fields []FieldConfig

// UnmarshalYAML keeps the order of the YAML mapping keys.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}
	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		fc, err := decodeField(name, node.Content[i+1])
		if err != nil {
			return err
		}
		out = append(out, fc)
	}
	*f = out
	return nil
}

func decodeField(name string, node *yaml.Node) (FieldConfig, error) {
	fc := FieldConfig{Name: name}
	switch node.Kind {
	case yaml.ScalarNode:
		fc.Type = node.Value
		return fc, nil
	case yaml.MappingNode:
	default:
		return FieldConfig{}, fmt.Errorf("line %d: field %q must be a type name or a mapping", node.Line, name)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "type":
			fc.Type = value.Value
		case "properties":
			if err := fc.Properties.UnmarshalYAML(value); err != nil {
				return FieldConfig{}, fmt.Errorf("field %q: %w", name, err)
			}
		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return FieldConfig{}, fmt.Errorf("field %q option %q: %w", name, key, err)
			}
			if fc.Options == nil {
				fc.Options = make(map[string]any)
			}
			fc.Options[key] = v
		}
	}
	return fc, nil
}
