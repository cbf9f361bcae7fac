// Package schema synthesizes and validates memory-entry record shapes.
//
// A collection declares a base shape (a set of named, typed, optionally
// defaulted fields, at minimum the canonical shape returned by Base) and a
// vector dimension. Synthesize combines the two into a concrete Schema
// with the generated identity, vector and timestamp fields appended, and
// the Schema then validates every record written through the collection.
//
// Synthesis happens once, at collection construction; there is no runtime
// type creation. Distinct schema configurations are distinct Schema
// values, each validating against its own explicitly declared field set.
//
//	custom := append(schema.Base(), schema.Field{Name: "agent_id", Type: schema.String})
//	sch, err := schema.Synthesize(custom, 384)
//	if err != nil {
//	    // base shape is not a valid extension of the canonical shape
//	}
//	err = sch.Validate(map[string]interface{}{ ... })
package schema
