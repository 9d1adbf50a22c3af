package pgfrag

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxSubqueryLen caps the length of subquery text accepted by the fragment
// builders. Oversized input is rejected before any scanning is attempted.
const MaxSubqueryLen = 10000

var subqueryStartPattern = regexp.MustCompile(`(?i)^(SELECT|WITH)\b`)

// comparisonOperators is the allow-list for operator-taking subquery
// builders, keyed by upper-cased operator text.
var comparisonOperators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"LIKE": {}, "ILIKE": {}, "@>": {}, "<@": {},
}

// checkSubquery validates subquery text: it must be non-empty, start with
// SELECT or WITH, stay under MaxSubqueryLen and contain no statement
// separator anywhere in its body (stacked-query defense).
func checkSubquery(sub string) error {
	trimmed := strings.TrimSpace(sub)
	if trimmed == "" {
		return fmt.Errorf("%w: empty subquery text", ErrInvalidSubquery)
	}
	if len(sub) > MaxSubqueryLen {
		return fmt.Errorf("%w: subquery text exceeds %d characters", ErrInvalidSubquery, MaxSubqueryLen)
	}
	if !subqueryStartPattern.MatchString(trimmed) {
		return fmt.Errorf("%w: subquery must start with SELECT or WITH, got %q", ErrInvalidSubquery, head(trimmed))
	}
	if strings.Contains(sub, ";") {
		return fmt.Errorf("%w: subquery contains a statement separator", ErrInvalidSubquery)
	}
	return nil
}

// checkOperator validates op against the comparison operator allow-list and
// returns its canonical upper-cased form.
func checkOperator(op string) (string, error) {
	canonical := strings.ToUpper(strings.TrimSpace(op))
	if _, ok := comparisonOperators[canonical]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	return canonical, nil
}

// head returns a short prefix of s for error messages, so a rejection never
// echoes a whole query back.
func head(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// InSubquery builds a "<column> IN (<sub>)" fragment. The column is
// sanitized, the subquery text is validated, and the subquery's arguments
// are carried through with their local numbering intact: renumbering against
// the enclosing statement happens at final composition, when the fragment's
// position in the overall parameter sequence is known.
func InSubquery(column, sub string, args ...interface{}) (Fragment, error) {
	return wrapSubquery(column, "IN", sub, args)
}

// NotInSubquery builds a "<column> NOT IN (<sub>)" fragment.
func NotInSubquery(column, sub string, args ...interface{}) (Fragment, error) {
	return wrapSubquery(column, "NOT IN", sub, args)
}

// ExistsSubquery builds an "EXISTS (<sub>)" fragment.
func ExistsSubquery(sub string, args ...interface{}) (Fragment, error) {
	if err := checkSubquery(sub); err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: "EXISTS (" + sub + ")", Args: args}, nil
}

// NotExistsSubquery builds a "NOT EXISTS (<sub>)" fragment.
func NotExistsSubquery(sub string, args ...interface{}) (Fragment, error) {
	if err := checkSubquery(sub); err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: "NOT EXISTS (" + sub + ")", Args: args}, nil
}

// CompareSubquery builds a "<column> <op> (<sub>)" fragment. The operator
// must be on the comparison allow-list.
func CompareSubquery(column, op, sub string, args ...interface{}) (Fragment, error) {
	canonical, err := checkOperator(op)
	if err != nil {
		return Fragment{}, err
	}
	return wrapSubquery(column, canonical, sub, args)
}

// AnySubquery builds a "<column> <op> ANY (<sub>)" fragment.
func AnySubquery(column, op, sub string, args ...interface{}) (Fragment, error) {
	canonical, err := checkOperator(op)
	if err != nil {
		return Fragment{}, err
	}
	return wrapSubquery(column, canonical+" ANY", sub, args)
}

// AllSubquery builds a "<column> <op> ALL (<sub>)" fragment.
func AllSubquery(column, op, sub string, args ...interface{}) (Fragment, error) {
	canonical, err := checkOperator(op)
	if err != nil {
		return Fragment{}, err
	}
	return wrapSubquery(column, canonical+" ALL", sub, args)
}

func wrapSubquery(column, keyword, sub string, args []interface{}) (Fragment, error) {
	col, err := Ident(column)
	if err != nil {
		return Fragment{}, err
	}
	if err := checkSubquery(sub); err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: col + " " + keyword + " (" + sub + ")", Args: args}, nil
}
