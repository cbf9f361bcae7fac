package filter

import (
	"strings"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

// CompileIn renders a set-membership predicate (field IN ('a', 'b')) with
// the same quoting rules as Compile. Used for id-keyed bulk updates so
// that no caller interpolates values into predicate text itself.
func CompileIn(field string, values []string) (string, error) {
	if field == "" {
		return "", errs.Queryf("IN predicate requires a field name")
	}
	if len(values) == 0 {
		return "", errs.Queryf("IN predicate requires at least one value")
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeString(v) + "'"
	}
	return field + " IN (" + strings.Join(quoted, ", ") + ")", nil
}
