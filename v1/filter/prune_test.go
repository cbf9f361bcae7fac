package filter

import (
	"testing"
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

var pruneNow = time.Unix(1_000_000, 0)

func floatPtr(f float64) *float64 { return &f }

func TestCompilePruneNothingToDo(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{Now: pruneNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false, got predicate %q", where)
	}
	if where != "" {
		t.Errorf("expected empty predicate, got %q", where)
	}
}

func TestCompilePruneMaxAge(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{MaxAge: 100 * time.Second, Now: pruneNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if where != "(timestamp_created < 999900)" {
		t.Errorf("unexpected predicate %q", where)
	}
}

func TestCompilePruneImportanceAdmitsNull(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{MinImportance: floatPtr(0.5), Now: pruneNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "((importance_score < 0.5 OR importance_score IS NULL))"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneStalenessAdmitsNull(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{MaxStale: 50 * time.Second, Now: pruneNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "((timestamp_last_accessed < 999950 OR timestamp_last_accessed IS NULL))"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneAndLogic(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{
		MaxAge:        100 * time.Second,
		MinImportance: floatPtr(0.5),
		Now:           pruneNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "(timestamp_created < 999900) AND ((importance_score < 0.5 OR importance_score IS NULL))"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneOrLogic(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{
		MaxAge:        100 * time.Second,
		MinImportance: floatPtr(0.5),
		Logic:         LogicOr,
		Now:           pruneNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "(timestamp_created < 999900) OR ((importance_score < 0.5 OR importance_score IS NULL))"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneRawAddon(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{
		MaxAge:   100 * time.Second,
		RawAddon: "type = 'log'",
		Now:      pruneNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "((timestamp_created < 999900)) AND (type = 'log')"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneRawAddonAlone(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{RawAddon: "type = 'log'", Now: pruneNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if where != "type = 'log'" {
		t.Errorf("unexpected predicate %q", where)
	}
}

func TestCompilePruneLowercaseLogic(t *testing.T) {
	where, ok, err := CompilePrune(PruneSpec{
		MaxAge:   100 * time.Second,
		MaxStale: 50 * time.Second,
		Logic:    Logic("or"),
		Now:      pruneNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := "(timestamp_created < 999900) OR ((timestamp_last_accessed < 999950 OR timestamp_last_accessed IS NULL))"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}

func TestCompilePruneInvalidLogic(t *testing.T) {
	_, _, err := CompilePrune(PruneSpec{MaxAge: time.Second, Logic: Logic("XOR"), Now: pruneNow})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errs.IsQueryError(err) {
		t.Errorf("expected a query error, got %v", err)
	}
}
