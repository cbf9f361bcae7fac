package filter

import (
	"strings"
	"testing"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

// compileFilter parses and compiles in one step; parse trees are easiest
// to check through their compiled form.
func compileFilter(t *testing.T, raw map[string]interface{}) string {
	t.Helper()
	cond, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got, err := Compile(cond)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return got
}

func TestParseEmptyFilter(t *testing.T) {
	cond, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != nil {
		t.Errorf("expected nil condition, got %#v", cond)
	}

	cond, err = Parse(map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != nil {
		t.Errorf("expected nil condition, got %#v", cond)
	}
}

func TestParseBareEquality(t *testing.T) {
	got := compileFilter(t, map[string]interface{}{"type": "log"})
	if got != "type = 'log'" {
		t.Errorf("unexpected predicate %q", got)
	}
}

func TestParseComparisonOperators(t *testing.T) {
	got := compileFilter(t, map[string]interface{}{
		"importance_score": map[string]interface{}{"$gte": 0.5, "$lt": 0.9},
	})
	want := "((importance_score >= 0.5) AND (importance_score < 0.9))"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseContains(t *testing.T) {
	got := compileFilter(t, map[string]interface{}{
		"tags": map[string]interface{}{"$contains": "urgent"},
	})
	if got != `tags LIKE '%urgent%' ESCAPE '\'` {
		t.Errorf("unexpected predicate %q", got)
	}
}

func TestParseImplicitAnd(t *testing.T) {
	got := compileFilter(t, map[string]interface{}{
		"type":             "log",
		"importance_score": map[string]interface{}{"$gt": 0.5},
	})
	want := "((importance_score > 0.5) AND (type = 'log'))"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseBooleanGroups(t *testing.T) {
	got := compileFilter(t, map[string]interface{}{
		"$or": []interface{}{
			map[string]interface{}{"type": "log"},
			map[string]interface{}{"importance_score": map[string]interface{}{"$gt": 0.8}},
		},
	})
	want := "((type = 'log') OR (importance_score > 0.8))"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got = compileFilter(t, map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"type": "log"},
			map[string]interface{}{"source": "agent"},
		},
	})
	want = "((type = 'log') AND (source = 'agent'))"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseDeterministicOutput(t *testing.T) {
	raw := map[string]interface{}{
		"type":             "log",
		"source":           "agent",
		"importance_score": map[string]interface{}{"$gte": 0.1, "$lte": 0.9},
	}
	first := compileFilter(t, raw)
	for i := 0; i < 20; i++ {
		if got := compileFilter(t, raw); got != first {
			t.Fatalf("output changed between runs: %q vs %q", first, got)
		}
	}
	if !strings.HasPrefix(first, "((importance_score >= 0.1)") {
		t.Errorf("keys not compiled in sorted order: %q", first)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want string
	}{
		{
			"unknown top-level operator",
			map[string]interface{}{"$nor": []interface{}{}},
			"$nor",
		},
		{
			"unknown field operator",
			map[string]interface{}{"score": map[string]interface{}{"$regex": "a.*"}},
			"$regex",
		},
		{
			"empty operator mapping",
			map[string]interface{}{"score": map[string]interface{}{}},
			"score",
		},
		{
			"empty and group",
			map[string]interface{}{"$and": []interface{}{}},
			"$and",
		},
		{
			"group not a list",
			map[string]interface{}{"$or": "nope"},
			"$or",
		},
		{
			"empty sub-filter",
			map[string]interface{}{"$or": []interface{}{map[string]interface{}{}}},
			"$or",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errs.IsQueryError(err) {
				t.Errorf("expected a query error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error should name %q, got %q", tc.want, err.Error())
			}
		})
	}
}
