package filter

import (
	"sort"
	"strings"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

// Recognized operator keys of the structured filter mini-language.
const (
	opAnd      = "$and"
	opOr       = "$or"
	opGt       = "$gt"
	opGte      = "$gte"
	opLt       = "$lt"
	opLte      = "$lte"
	opContains = "$contains"
)

// Parse converts a structured filter mapping into a Condition tree.
//
// The mini-language:
//
//	{"type": "log"}                                  bare equality
//	{"score": {"$gte": 0.5}}                         comparison operators
//	{"tags": {"$contains": "urgent"}}                membership/substring
//	{"$and": [f1, f2]} / {"$or": [f1, f2]}           boolean composition
//
// Multiple keys in one mapping combine as an implicit AND. An empty
// mapping parses to a nil Condition, meaning "no restriction". An
// unrecognized $-prefixed key fails with a query error naming the
// operator, at parse time rather than at the storage boundary.
func Parse(raw map[string]interface{}) (Condition, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	conditions := make([]Condition, 0, len(raw))
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		switch {
		case key == opAnd || key == opOr:
			children, err := parseGroup(key, value)
			if err != nil {
				return nil, err
			}
			if key == opAnd {
				conditions = append(conditions, And{Conditions: children})
			} else {
				conditions = append(conditions, Or{Conditions: children})
			}
		case strings.HasPrefix(key, "$"):
			return nil, errs.Queryf("unrecognized filter operator %q", key)
		default:
			cond, err := parseField(key, value)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, cond...)
		}
	}

	if len(conditions) == 1 {
		return conditions[0], nil
	}
	return And{Conditions: conditions}, nil
}

// parseGroup parses the sub-filter list of an $and/$or operator.
func parseGroup(op string, value interface{}) ([]Condition, error) {
	subs, err := asFilterList(value)
	if err != nil {
		return nil, errs.Queryf("%s: %v", op, err)
	}
	if len(subs) == 0 {
		return nil, errs.Queryf("%s requires at least one sub-filter", op)
	}
	children := make([]Condition, 0, len(subs))
	for _, sub := range subs {
		child, err := Parse(sub)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, errs.Queryf("%s contains an empty sub-filter", op)
		}
		children = append(children, child)
	}
	return children, nil
}

// parseField parses a single field entry: either a bare equality value or
// an operator mapping.
func parseField(field string, value interface{}) ([]Condition, error) {
	ops, isMap := value.(map[string]interface{})
	if !isMap {
		return []Condition{Eq{Field: field, Value: value}}, nil
	}
	if len(ops) == 0 {
		return nil, errs.Queryf("field %q has an empty operator mapping", field)
	}

	conditions := make([]Condition, 0, len(ops))
	for _, op := range sortedKeys(ops) {
		operand := ops[op]
		switch op {
		case opGt:
			conditions = append(conditions, Gt{Field: field, Value: operand})
		case opGte:
			conditions = append(conditions, Gte{Field: field, Value: operand})
		case opLt:
			conditions = append(conditions, Lt{Field: field, Value: operand})
		case opLte:
			conditions = append(conditions, Lte{Field: field, Value: operand})
		case opContains:
			conditions = append(conditions, Contains{Field: field, Value: operand})
		default:
			return nil, errs.Queryf("unrecognized filter operator %q", op)
		}
	}
	return conditions, nil
}

// asFilterList coerces the accepted sub-filter list representations.
func asFilterList(value interface{}) ([]map[string]interface{}, error) {
	switch list := value.(type) {
	case []map[string]interface{}:
		return list, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			sub, ok := item.(map[string]interface{})
			if !ok {
				return nil, errs.Queryf("sub-filters must be mappings, got %T", item)
			}
			out = append(out, sub)
		}
		return out, nil
	default:
		return nil, errs.Queryf("expected a list of sub-filters, got %T", value)
	}
}

// sortedKeys keeps compiled predicates deterministic regardless of map
// iteration order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
