// Package querybuilder contains the statement-building primitives the entity
// models assemble their SQL from. It produces parameterized clause fragments
// plus the ordered argument list that goes with them; values never end up
// inside the SQL text. Column names are trusted identifiers supplied by the
// models themselves (see db.Tables), never request input.
//
// Inputs are ordered slices rather than maps so the clause text and the bound
// argument sequence stay aligned deterministically.
package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when a clause is requested for an empty set of
// assignments or predicates. Callers are expected to branch on emptiness
// before building (an unfiltered SELECT simply has no WHERE clause).
var ErrEmptyInput = errors.New("querybuilder: empty input set")

// Assignment is one column/value pair of a SET or INSERT clause.
type Assignment struct {
	Column string
	Value  interface{}
}

// SetClause renders assignments as `"a = $n, b = $n+1, ..."` with placeholder
// numbering beginning at start, and returns the matching ordered values.
// Used for UPDATE statements.
func SetClause(assignments []Assignment, start int) (string, []interface{}, error) {
	if len(assignments) == 0 {
		return "", nil, ErrEmptyInput
	}

	parts := make([]string, 0, len(assignments))
	args := make([]interface{}, 0, len(assignments))
	for i, a := range assignments {
		parts = append(parts, fmt.Sprintf("%s = $%d", a.Column, start+i))
		args = append(args, a.Value)
	}
	return strings.Join(parts, ", "), args, nil
}

// InsertClause renders assignments as `"(a, b) VALUES ($n, $n+1)"` with
// placeholder numbering beginning at start, and returns the ordered values.
func InsertClause(assignments []Assignment, start int) (string, []interface{}, error) {
	if len(assignments) == 0 {
		return "", nil, ErrEmptyInput
	}

	cols := make([]string, 0, len(assignments))
	holes := make([]string, 0, len(assignments))
	args := make([]interface{}, 0, len(assignments))
	for i, a := range assignments {
		cols = append(cols, a.Column)
		holes = append(holes, fmt.Sprintf("$%d", start+i))
		args = append(args, a.Value)
	}
	return fmt.Sprintf("(%s) VALUES (%s)", strings.Join(cols, ", "), strings.Join(holes, ", ")), args, nil
}

// Predicate is one term of a WHERE clause. The concrete variants are Eq and
// Or; keeping the set closed keeps all SQL text construction inside this
// package instead of hand-escaped fragments at call sites.
type Predicate interface {
	// render appends the predicate's SQL to sb and its values to args,
	// starting placeholder numbering at next. It returns the next unused
	// placeholder index.
	render(sb *strings.Builder, args *[]interface{}, next int) int
}

// Eq is an equality predicate: column = value.
type Eq struct {
	Column string
	Value  interface{}
}

func (e Eq) render(sb *strings.Builder, args *[]interface{}, next int) int {
	fmt.Fprintf(sb, "%s = $%d", e.Column, next)
	*args = append(*args, e.Value)
	return next + 1
}

// Or is a disjunction of predicates, rendered parenthesized so it composes
// with the surrounding AND conjunction.
type Or []Predicate

func (o Or) render(sb *strings.Builder, args *[]interface{}, next int) int {
	sb.WriteString("(")
	for i, p := range o {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		next = p.render(sb, args, next)
	}
	sb.WriteString(")")
	return next
}

// FilterClause renders predicates joined by AND, with placeholder numbering
// beginning at start, and returns the ordered values. Equality (plus the Or
// composition above) is the entire predicate vocabulary; range and IN-list
// filtering is deliberately out of scope, and the few call sites that need a
// non-equality condition write it into their own SQL template.
func FilterClause(preds []Predicate, start int) (string, []interface{}, error) {
	if len(preds) == 0 {
		return "", nil, ErrEmptyInput
	}

	var sb strings.Builder
	var args []interface{}
	next := start
	for i, p := range preds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		next = p.render(&sb, &args, next)
	}
	return sb.String(), args, nil
}
