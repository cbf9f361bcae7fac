package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// Logic selects the connective joining the declared pruning conditions.
type Logic string

const (
	// LogicAnd removes entries matching every declared condition.
	LogicAnd Logic = "AND"
	// LogicOr removes entries matching any declared condition.
	LogicOr Logic = "OR"
)

// PruneSpec declares the independent, optional conditions of a pruning
// pass. Zero-valued fields are "not set".
type PruneSpec struct {
	// MaxAge targets entries created more than MaxAge ago.
	MaxAge time.Duration

	// MinImportance targets entries whose importance_score is strictly
	// below the threshold. Entries without a score qualify.
	MinImportance *float64

	// MaxStale targets entries last accessed more than MaxStale ago.
	// Entries never accessed qualify.
	MaxStale time.Duration

	// Logic joins the declared conditions; defaults to LogicAnd.
	Logic Logic

	// RawAddon is an arbitrary caller-supplied predicate fragment,
	// conjoined (AND) with the declared conditions.
	RawAddon string

	// Now anchors the age/staleness cutoffs; the zero value means
	// time.Now().
	Now time.Time
}

// CompilePrune translates a PruneSpec into a single textual predicate.
// The second return value is false when no condition and no raw addon is
// set: the caller must treat that as a zero-effect no-op, not an error.
//
// Missing importance scores and access timestamps qualify for removal:
// the compiled inequalities explicitly admit NULL. NULL passes the
// threshold check, it does not fail it.
func CompilePrune(spec PruneSpec) (string, bool, error) {
	logic := spec.Logic
	if logic == "" {
		logic = LogicAnd
	}
	logic = Logic(strings.ToUpper(string(logic)))
	if logic != LogicAnd && logic != LogicOr {
		return "", false, errs.Queryf("prune logic must be AND or OR, got %q", spec.Logic)
	}

	now := spec.Now
	if now.IsZero() {
		now = time.Now()
	}
	nowSecs := epochSeconds(now)

	var conditions []string
	if spec.MaxAge > 0 {
		cutoff := nowSecs - spec.MaxAge.Seconds()
		conditions = append(conditions, fmt.Sprintf("%s < %s",
			schema.FieldTimestampCreated, formatFloat(cutoff)))
	}
	if spec.MinImportance != nil {
		conditions = append(conditions, fmt.Sprintf("(%s < %s OR %s IS NULL)",
			schema.FieldImportanceScore, formatFloat(*spec.MinImportance),
			schema.FieldImportanceScore))
	}
	if spec.MaxStale > 0 {
		cutoff := nowSecs - spec.MaxStale.Seconds()
		conditions = append(conditions, fmt.Sprintf("(%s < %s OR %s IS NULL)",
			schema.FieldTimestampLastAccessed, formatFloat(cutoff),
			schema.FieldTimestampLastAccessed))
	}

	var main string
	if len(conditions) > 0 {
		wrapped := make([]string, len(conditions))
		for i, c := range conditions {
			wrapped[i] = "(" + c + ")"
		}
		main = strings.Join(wrapped, " "+string(logic)+" ")
	}

	addon := strings.TrimSpace(spec.RawAddon)
	switch {
	case main != "" && addon != "":
		return "(" + main + ") AND (" + addon + ")", true, nil
	case main != "":
		return main, true, nil
	case addon != "":
		return addon, true, nil
	default:
		return "", false, nil
	}
}

// epochSeconds converts a time to floating-point epoch seconds, the
// timestamp representation used by every memory entry.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
