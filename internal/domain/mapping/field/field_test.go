package field

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestField_ToDict(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		want map[string]any
	}{
		{"plain", String(), map[string]any{"type": "string"}},
		{"with option", String(Index("not_analyzed")), map[string]any{"type": "string", "index": "not_analyzed"}},
		{"date format", Date(Format("yyyy-MM-dd")), map[string]any{"type": "date", "format": "yyyy-MM-dd"}},
		{"generic option", Integer(With("null_value", 0)), map[string]any{"type": "integer", "null_value": 0}},
		{"type option ignored", Long(With("type", "string")), map[string]any{"type": "long"}},
		{
			"object",
			Object(NewProperties(Prop("old_field", String()))),
			map[string]any{"type": "object", "properties": map[string]any{"old_field": map[string]any{"type": "string"}}},
		},
		{"empty nested", Nested(Properties{}), map[string]any{"type": "nested", "properties": map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.ToDict(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToDict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestField_MarshalJSONOrder(t *testing.T) {
	f := Object(NewProperties(
		Prop("zeta", String(Store(true), Analyzer("english"))),
		Prop("alpha", Double(Boost(2))),
	))

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"type":"object","properties":{"zeta":{"type":"string","analyzer":"english","store":true},"alpha":{"type":"double","boost":2}}}`
	if string(data) != want {
		t.Errorf("json =\n%s\nwant\n%s", data, want)
	}
}

func TestType_IsValid(t *testing.T) {
	if !TypeGeoPoint.IsValid() {
		t.Error("geo_point should be valid")
	}
	if Type("vector").IsValid() {
		t.Error("vector should be invalid")
	}
	if !TypeNested.HasProperties() || TypeDate.HasProperties() {
		t.Error("HasProperties mismatch")
	}
}

func TestField_OptionsAreCopied(t *testing.T) {
	f := String(Index("no"))
	opts := f.Options()
	opts["index"] = "analyzed"

	if v, _ := f.Option("index"); v != "no" {
		t.Errorf("index = %v, want no", v)
	}
}

func TestReconstruct(t *testing.T) {
	opts := map[string]any{"index": "not_analyzed"}
	f := Reconstruct(TypeString, opts, Properties{})
	opts["index"] = "no"

	if v, _ := f.Option("index"); v != "not_analyzed" {
		t.Errorf("index = %v, want not_analyzed", v)
	}
}
