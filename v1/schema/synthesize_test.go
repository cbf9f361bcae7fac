package schema

import (
	"testing"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

func TestSynthesizeDefaultBase(t *testing.T) {
	s, err := Synthesize(nil, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dimension() != 8 {
		t.Errorf("expected dimension 8, got %d", s.Dimension())
	}

	fields := s.Fields()
	wantOrder := []string{FieldID, FieldVector, FieldTimestampCreated, FieldTimestampLastAccessed}
	for i, name := range wantOrder {
		if fields[i].Name != name {
			t.Errorf("field %d: expected %q, got %q", i, name, fields[i].Name)
		}
	}
	for _, name := range []string{FieldID, FieldVector, FieldTimestampCreated} {
		f, ok := s.Field(name)
		if !ok || !f.Required {
			t.Errorf("generated field %q should be required", name)
		}
	}
	if f, _ := s.Field(FieldTimestampLastAccessed); f.Required {
		t.Error("timestamp_last_accessed should be optional")
	}
	for _, f := range Base() {
		if !s.Has(f.Name) {
			t.Errorf("canonical field %q missing from synthesized schema", f.Name)
		}
	}
}

func TestSynthesizeCustomFields(t *testing.T) {
	base := append(Base(),
		Field{Name: "session_id", Type: String, Required: true},
		Field{Name: "turn", Type: Int},
	)
	s, err := Synthesize(base, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := s.Field("session_id")
	if !ok || f.Type != String || !f.Required {
		t.Errorf("unexpected session_id descriptor: %+v (ok=%v)", f, ok)
	}
	if f, _ := s.Field("turn"); f.Type != Int {
		t.Errorf("expected turn to be an int field, got %s", f.Type)
	}
}

func TestSynthesizeRejections(t *testing.T) {
	tests := []struct {
		name      string
		base      []Field
		dimension int
	}{
		{"zero dimension", nil, 0},
		{"negative dimension", nil, -3},
		{"reserved field", append(Base(), Field{Name: FieldVector, Type: Vector}), 4},
		{"reserved id", append(Base(), Field{Name: FieldID, Type: String}), 4},
		{"duplicate field", append(Base(), Field{Name: FieldContent, Type: String}), 4},
		{"empty field name", append(Base(), Field{Name: "", Type: String}), 4},
		{"missing canonical field", Base()[1:], 4},
		{"retyped canonical field", append(Base()[1:], Field{Name: FieldContent, Type: Int}), 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Synthesize(tc.base, tc.dimension)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errs.IsSchemaError(err) {
				t.Errorf("expected a schema error, got %v", err)
			}
		})
	}
}

func validEntry(dimension int) map[string]interface{} {
	vec := make([]float32, dimension)
	vec[0] = 1
	return map[string]interface{}{
		FieldID:               "entry-1",
		FieldVector:           vec,
		FieldTimestampCreated: 1700000000.5,
		FieldContent:          "remember this",
		FieldTypeName:         "note",
		FieldImportanceScore:  0.7,
		FieldTags:             []string{"a", "b"},
		FieldMetadata:         map[string]interface{}{"k": "v"},
	}
}

func TestValidateAcceptsCompleteEntry(t *testing.T) {
	s, err := Synthesize(nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Validate(validEntry(4)); err != nil {
		t.Errorf("expected valid entry, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	s, err := Synthesize(nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing id", func(e map[string]interface{}) { delete(e, FieldID) }},
		{"nil required field", func(e map[string]interface{}) { e[FieldVector] = nil }},
		{"undeclared field", func(e map[string]interface{}) { e["surprise"] = 1 }},
		{"wrong string type", func(e map[string]interface{}) { e[FieldContent] = 42 }},
		{"wrong list type", func(e map[string]interface{}) { e[FieldTags] = []int{1} }},
		{"wrong map type", func(e map[string]interface{}) { e[FieldMetadata] = "not a map" }},
		{"vector too short", func(e map[string]interface{}) { e[FieldVector] = []float32{1, 2} }},
		{"vector wrong type", func(e map[string]interface{}) { e[FieldVector] = "nope" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := validEntry(4)
			tc.mutate(entry)
			err := s.Validate(entry)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errs.IsSchemaError(err) {
				t.Errorf("expected a schema error, got %v", err)
			}
		})
	}
}

func TestValidateNumericCoercions(t *testing.T) {
	s, err := Synthesize(append(Base(), Field{Name: "turn", Type: Int}), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := validEntry(4)
	entry[FieldImportanceScore] = 1 // int into a float field
	entry["turn"] = float64(3)     // integral float into an int field
	if err := s.Validate(entry); err != nil {
		t.Errorf("expected numeric coercions to validate, got %v", err)
	}

	entry["turn"] = 3.5
	if err := s.Validate(entry); err == nil {
		t.Error("expected fractional value to fail an int field")
	}
}

func TestValidateOptionalFieldsMayBeAbsent(t *testing.T) {
	s, err := Synthesize(nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := map[string]interface{}{
		FieldID:               "entry-2",
		FieldVector:           make([]float32, 4),
		FieldTimestampCreated: 1700000000.0,
	}
	if err := s.Validate(entry); err != nil {
		t.Errorf("expected entry with only required fields to validate, got %v", err)
	}
}

func TestAsVector(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		ok    bool
		size  int
	}{
		{"float32 slice", []float32{1, 2}, true, 2},
		{"float64 slice", []float64{1, 2, 3}, true, 3},
		{"interface slice", []interface{}{1.0, 2, float32(3)}, true, 3},
		{"interface slice with string", []interface{}{1.0, "x"}, false, 0},
		{"not a slice", "vector", false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vec, ok := AsVector(tc.value)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && len(vec) != tc.size {
				t.Errorf("expected %d elements, got %d", tc.size, len(vec))
			}
		})
	}
}
