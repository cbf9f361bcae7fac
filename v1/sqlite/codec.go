package sqlite

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// encodeValue converts a record value into its SQL representation. Nil
// values map to NULL.
func encodeValue(f schema.Field, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch f.Type {
	case schema.String:
		s, ok := v.(string)
		if !ok {
			return nil, encodeErr(f, v)
		}
		return s, nil
	case schema.Float:
		n, ok := schema.AsFloat(v)
		if !ok {
			return nil, encodeErr(f, v)
		}
		return n, nil
	case schema.Int:
		n, ok := schema.AsFloat(v)
		if !ok || n != math.Trunc(n) {
			return nil, encodeErr(f, v)
		}
		return int64(n), nil
	case schema.Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, encodeErr(f, v)
		}
		return b, nil
	case schema.StringList, schema.Map:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: failed to encode as JSON: %w", f.Name, err)
		}
		return string(data), nil
	case schema.Vector:
		vec, ok := schema.AsVector(v)
		if !ok {
			return nil, encodeErr(f, v)
		}
		return encodeVector(vec), nil
	default:
		return nil, encodeErr(f, v)
	}
}

// decodeValue converts a scanned SQL value back into its record
// representation.
func decodeValue(f schema.Field, v interface{}) (interface{}, error) {
	switch f.Type {
	case schema.String:
		return asText(v)
	case schema.Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
		return nil, decodeErr(f, v)
	case schema.Int:
		n, ok := v.(int64)
		if !ok {
			return nil, decodeErr(f, v)
		}
		return n, nil
	case schema.Bool:
		switch n := v.(type) {
		case bool:
			return n, nil
		case int64:
			return n != 0, nil
		}
		return nil, decodeErr(f, v)
	case schema.StringList:
		text, err := asText(v)
		if err != nil {
			return nil, decodeErr(f, v)
		}
		var list []string
		if err := json.Unmarshal([]byte(text), &list); err != nil {
			return nil, fmt.Errorf("column %q: failed to decode JSON list: %w", f.Name, err)
		}
		return list, nil
	case schema.Map:
		text, err := asText(v)
		if err != nil {
			return nil, decodeErr(f, v)
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			return nil, fmt.Errorf("column %q: failed to decode JSON map: %w", f.Name, err)
		}
		return m, nil
	case schema.Vector:
		blob, ok := v.([]byte)
		if !ok {
			return nil, decodeErr(f, v)
		}
		return decodeVector(blob)
	default:
		return nil, decodeErr(f, v)
	}
}

func asText(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("expected text, got %T", v)
}

// encodeVector packs a vector as little-endian float32s.
func encodeVector(vec []float32) []byte {
	blob := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(blob[4*i:], math.Float32bits(x))
	}
	return blob
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}

// rankByCosine orders rows by cosine similarity to the query vector,
// nearest first. The sort is stable, so ties keep the table's native
// order.
func rankByCosine(rows []engine.Row, query []float32) []engine.Row {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		vec, _ := row[schema.FieldVector].([]float32)
		scores[i] = cosine(query, vec)
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	ranked := make([]engine.Row, len(rows))
	for i, j := range idx {
		ranked[i] = rows[j]
	}
	return ranked
}

// cosine computes cosine similarity; mismatched or zero-norm vectors
// score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func encodeErr(f schema.Field, v interface{}) error {
	return fmt.Errorf("column %q: cannot encode %T as %s", f.Name, v, f.Type)
}

func decodeErr(f schema.Field, v interface{}) error {
	return fmt.Errorf("column %q: cannot decode %T as %s", f.Name, v, f.Type)
}
