package filter

import (
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
)

// Condition is a node of a structured filter expression. Conditions are
// parsed once from the operator mini-language (see Parse) or constructed
// directly, then compiled by structural recursion into a single textual
// predicate in the storage engine's SQL dialect.
type Condition interface {
	// isCondition is a marker method to ensure type safety
	isCondition()
}

// Eq matches records whose field equals the value (WHERE field = value).
type Eq struct {
	Field string
	Value interface{}
}

func (Eq) isCondition() {}

// Gt matches records whose field is strictly greater than the value.
type Gt struct {
	Field string
	Value interface{}
}

func (Gt) isCondition() {}

// Gte matches records whose field is greater than or equal to the value.
type Gte struct {
	Field string
	Value interface{}
}

func (Gte) isCondition() {}

// Lt matches records whose field is strictly less than the value.
type Lt struct {
	Field string
	Value interface{}
}

func (Lt) isCondition() {}

// Lte matches records whose field is less than or equal to the value.
type Lte struct {
	Field string
	Value interface{}
}

func (Lte) isCondition() {}

// Contains performs a membership/substring test: the value must occur
// inside a text-valued field or inside the serialized form of a
// sequence-valued field. Compiles to a LIKE predicate.
type Contains struct {
	Field string
	Value interface{}
}

func (Contains) isCondition() {}

// And holds when every child condition holds.
type And struct {
	Conditions []Condition
}

func (And) isCondition() {}

// Or holds when at least one child condition holds.
type Or struct {
	Conditions []Condition
}

func (Or) isCondition() {}

// Compile renders a condition tree as a textual boolean predicate. A nil
// condition compiles to the empty string, meaning "no restriction" -
// callers omit the predicate entirely.
//
// String literals are single-quoted with embedded quotes doubled; numeric
// and boolean literals are rendered unquoted. Nested and/or groups are
// parenthesized to preserve precedence.
func Compile(c Condition) (string, error) {
	if c == nil {
		return "", nil
	}
	var b strings.Builder
	if err := compile(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

func compile(b *strings.Builder, c Condition) error {
	switch cond := c.(type) {
	case Eq:
		return compileComparison(b, cond.Field, "=", cond.Value)
	case Gt:
		return compileComparison(b, cond.Field, ">", cond.Value)
	case Gte:
		return compileComparison(b, cond.Field, ">=", cond.Value)
	case Lt:
		return compileComparison(b, cond.Field, "<", cond.Value)
	case Lte:
		return compileComparison(b, cond.Field, "<=", cond.Value)
	case Contains:
		return compileContains(b, cond)
	case And:
		return compileGroup(b, "AND", cond.Conditions)
	case Or:
		return compileGroup(b, "OR", cond.Conditions)
	default:
		return errs.Queryf("unsupported filter condition %T", c)
	}
}

func compileComparison(b *strings.Builder, field, op string, value interface{}) error {
	if field == "" {
		return errs.Queryf("filter condition has an empty field name")
	}
	lit, err := renderLiteral(value)
	if err != nil {
		return errs.Queryf("field %q: %v", field, err)
	}
	b.WriteString(field)
	b.WriteString(" ")
	b.WriteString(op)
	b.WriteString(" ")
	b.WriteString(lit)
	return nil
}

func compileContains(b *strings.Builder, c Contains) error {
	if c.Field == "" {
		return errs.Queryf("filter condition has an empty field name")
	}
	needle, err := renderBare(c.Value)
	if err != nil {
		return errs.Queryf("field %q: %v", c.Field, err)
	}
	b.WriteString(c.Field)
	b.WriteString(" LIKE '%")
	b.WriteString(escapeString(escapeLike(needle)))
	b.WriteString("%' ESCAPE '\\'")
	return nil
}

func compileGroup(b *strings.Builder, connective string, children []Condition) error {
	if len(children) == 0 {
		return errs.Queryf("%s group requires at least one sub-filter", strings.ToLower(connective))
	}
	if len(children) == 1 {
		return compile(b, children[0])
	}
	b.WriteString("(")
	for i, child := range children {
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(connective)
			b.WriteString(" ")
		}
		b.WriteString("(")
		if err := compile(b, child); err != nil {
			return err
		}
		b.WriteString(")")
	}
	b.WriteString(")")
	return nil
}

// renderLiteral renders a Go value as a SQL literal.
func renderLiteral(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return "'" + escapeString(x) + "'", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	default:
		return "", errs.Queryf("unsupported literal type %T", v)
	}
}

// renderBare renders a value without quoting, for embedding inside a LIKE
// pattern.
func renderBare(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	default:
		return "", errs.Queryf("unsupported literal type %T", v)
	}
}

// escapeString doubles embedded single quotes. This is the only quoting
// mechanism applied to caller-supplied strings before they are embedded
// in predicate text.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// escapeLike neutralizes the LIKE wildcards in a needle so it matches as
// a literal substring. The predicate must carry ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
