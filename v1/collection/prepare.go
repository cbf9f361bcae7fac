package collection

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// prepare turns caller-supplied fields into a complete, validated record
// ready for insertion. It never mutates the input map.
//
// Preparation fills an id and creation timestamp when absent, applies
// declared field defaults, and resolves the vector: an explicit vector
// is dimension-checked; otherwise, with an embedder configured, the
// vector is generated at write time from the embedder's source field,
// which must be a non-empty string; otherwise the entry is rejected.
func (c *Collection) prepare(fields map[string]interface{}) (map[string]interface{}, error) {
	entry := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}

	for _, f := range c.schema.Fields() {
		if f.Default == nil {
			continue
		}
		if v, present := entry[f.Name]; !present || v == nil {
			entry[f.Name] = f.Default
		}
	}

	id, _ := entry[schema.FieldID].(string)
	if id == "" {
		id = c.newID()
		entry[schema.FieldID] = id
	}
	if v, present := entry[schema.FieldTimestampCreated]; !present || v == nil {
		entry[schema.FieldTimestampCreated] = epochSeconds(c.now())
	}

	deferred, err := c.resolveVector(entry, id)
	if err != nil {
		return nil, err
	}

	// A deferred vector is produced by the engine at insert; validate the
	// rest of the record as if it were already present.
	toValidate := entry
	if deferred {
		toValidate = make(map[string]interface{}, len(entry)+1)
		for k, v := range entry {
			toValidate[k] = v
		}
		toValidate[schema.FieldVector] = make([]float32, c.schema.Dimension())
	}
	if err := c.schema.Validate(toValidate); err != nil {
		return nil, fmt.Errorf("collection %q, id %q: %w", c.name, id, err)
	}
	return entry, nil
}

// resolveVector settles the entry's vector in place and reports whether
// generation is deferred to the engine.
func (c *Collection) resolveVector(entry map[string]interface{}, id string) (bool, error) {
	if v, present := entry[schema.FieldVector]; present && v != nil {
		vec, ok := schema.AsVector(v)
		if !ok {
			return false, errs.Schemaf("collection %q, id %q: vector value of type %T is not a float sequence",
				c.name, id, v)
		}
		if len(vec) != c.schema.Dimension() {
			return false, errs.Schemaf("collection %q, id %q: vector length %d does not match dimension %d",
				c.name, id, len(vec), c.schema.Dimension())
		}
		entry[schema.FieldVector] = vec
		return false, nil
	}

	if c.embedder == nil {
		return false, errs.Embeddingf(
			"collection %q, id %q: entry has no vector and the collection has no embedding function",
			c.name, id)
	}
	source := c.sourceField()
	text, _ := entry[source].(string)
	if text == "" {
		return false, errs.Embeddingf(
			"collection %q, id %q: entry has no vector and embedding source field %q is missing or empty",
			c.name, id, source)
	}
	delete(entry, schema.FieldVector)
	return true, nil
}

// epochSeconds renders a time as float64 seconds since the Unix epoch,
// the wire representation of all timestamps in this module.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
