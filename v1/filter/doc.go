// Package filter compiles structured filter expressions and pruning
// predicates into the textual predicate language of the storage engine.
//
// Predicates built here are embedded verbatim into queries sent to the
// engine, which makes this package an injection-prone boundary. All
// quoting and escaping of caller-supplied values lives here and only
// here; no other package interpolates values into predicate text.
//
// # Structured filters
//
// Filters arrive either as a Condition tree built directly, or as the
// operator mini-language parsed by Parse:
//
//	cond, err := filter.Parse(map[string]interface{}{
//	    "$and": []interface{}{
//	        map[string]interface{}{"type": "log"},
//	        map[string]interface{}{"importance_score": map[string]interface{}{"$gte": 0.5}},
//	    },
//	})
//	sql, err := filter.Compile(cond)
//	// ((type = 'log') AND (importance_score >= 0.5))
//
// Unrecognized operators fail at parse time, not at the storage boundary.
//
// # Pruning predicates
//
// CompilePrune combines the optional age/importance/staleness thresholds
// of a PruneSpec with a caller-chosen connective, plus an optional raw
// predicate fragment. Missing scores and access timestamps qualify for
// removal (NULL passes the threshold checks).
package filter
