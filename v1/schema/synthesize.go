package schema

import (
	"math"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

// Schema is a synthesized record shape: a declared base shape plus the
// generated identity, vector and timestamp fields. It is built once at
// collection construction and cached for the collection's lifetime.
type Schema struct {
	fields    []Field
	index     map[string]int
	dimension int
}

// Synthesize builds a concrete schema from a base shape and a vector
// dimension. The base must be a valid extension of the canonical
// memory-entry shape (see Base): every canonical field must be declared
// with a conforming type. A nil base means Base().
//
// The synthesized schema adds:
//   - id                      string, required
//   - vector                  fixed-length float sequence, required
//   - timestamp_created       float epoch seconds, required
//   - timestamp_last_accessed optional float epoch seconds
//
// Base shapes that redeclare a generated field, declare a field twice, or
// drop/retype a canonical field fail with a schema error.
func Synthesize(base []Field, dimension int) (*Schema, error) {
	if dimension <= 0 {
		return nil, errs.Schemaf("vector dimension must be positive, got %d", dimension)
	}
	if base == nil {
		base = Base()
	}

	seen := make(map[string]FieldType, len(base))
	for _, f := range base {
		if f.Name == "" {
			return nil, errs.Schemaf("base schema declares a field with an empty name")
		}
		if isGenerated(f.Name) {
			return nil, errs.Schemaf("base schema must not declare reserved field %q", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errs.Schemaf("base schema declares field %q twice", f.Name)
		}
		seen[f.Name] = f.Type
	}

	for _, want := range Base() {
		got, ok := seen[want.Name]
		if !ok {
			return nil, errs.Schemaf("base schema must declare canonical field %q", want.Name)
		}
		if got != want.Type {
			return nil, errs.Schemaf("canonical field %q must have type %s, got %s",
				want.Name, want.Type, got)
		}
	}

	fields := make([]Field, 0, len(base)+4)
	fields = append(fields,
		Field{Name: FieldID, Type: String, Required: true},
		Field{Name: FieldVector, Type: Vector, Required: true},
		Field{Name: FieldTimestampCreated, Type: Float, Required: true},
		Field{Name: FieldTimestampLastAccessed, Type: Float},
	)
	fields = append(fields, base...)

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}

	return &Schema{fields: fields, index: index, dimension: dimension}, nil
}

// Dimension returns the fixed vector length of this schema.
func (s *Schema) Dimension() int { return s.dimension }

// Fields returns the ordered field descriptors, generated fields first.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field descriptor by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema declares the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Validate checks a fully-populated record against the schema: undeclared
// fields, missing required fields, type mismatches and vector dimension
// mismatches all fail with a schema error naming the offending field.
// Validate never mutates the record.
func (s *Schema) Validate(entry map[string]interface{}) error {
	for name := range entry {
		if !s.Has(name) {
			return errs.Schemaf("field %q is not declared by the schema", name)
		}
	}
	for _, f := range s.fields {
		v, present := entry[f.Name]
		if !present || v == nil {
			if f.Required {
				return errs.Schemaf("required field %q is missing", f.Name)
			}
			continue
		}
		if err := s.conform(f, v); err != nil {
			return err
		}
	}
	return nil
}

// conform checks a single non-nil value against its field descriptor.
func (s *Schema) conform(f Field, v interface{}) error {
	switch f.Type {
	case String:
		if _, ok := v.(string); !ok {
			return typeErr(f, v)
		}
	case Float:
		if !isNumeric(v) {
			return typeErr(f, v)
		}
	case Int:
		switch n := v.(type) {
		case int, int32, int64:
		case float64:
			if n != math.Trunc(n) {
				return typeErr(f, v)
			}
		default:
			return typeErr(f, v)
		}
	case Bool:
		if _, ok := v.(bool); !ok {
			return typeErr(f, v)
		}
	case StringList:
		if !isStringList(v) {
			return typeErr(f, v)
		}
	case Map:
		if _, ok := v.(map[string]interface{}); !ok {
			return typeErr(f, v)
		}
	case Vector:
		vec, ok := AsVector(v)
		if !ok {
			return typeErr(f, v)
		}
		if len(vec) != s.dimension {
			return errs.Schemaf("field %q: vector length %d does not match dimension %d",
				f.Name, len(vec), s.dimension)
		}
	}
	return nil
}

// AsVector coerces the supported vector representations ([]float32,
// []float64, []interface{} of numbers) into a []float32.
func AsVector(v interface{}) ([]float32, bool) {
	switch vec := v.(type) {
	case []float32:
		return vec, true
	case []float64:
		out := make([]float32, len(vec))
		for i, x := range vec {
			out[i] = float32(x)
		}
		return out, true
	case []interface{}:
		out := make([]float32, len(vec))
		for i, x := range vec {
			f, ok := asFloat(x)
			if !ok {
				return nil, false
			}
			out[i] = float32(f)
		}
		return out, true
	default:
		return nil, false
	}
}

// AsFloat coerces the supported numeric representations into a float64.
func AsFloat(v interface{}) (float64, bool) { return asFloat(v) }

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isNumeric(v interface{}) bool {
	_, ok := asFloat(v)
	return ok
}

func isStringList(v interface{}) bool {
	switch list := v.(type) {
	case []string:
		return true
	case []interface{}:
		for _, x := range list {
			if _, ok := x.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isGenerated(name string) bool {
	switch name {
	case FieldID, FieldVector, FieldTimestampCreated, FieldTimestampLastAccessed:
		return true
	}
	return false
}

func typeErr(f Field, v interface{}) error {
	return errs.Schemaf("field %q: expected %s, got %T", f.Name, f.Type, v)
}
