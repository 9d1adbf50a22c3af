package pgfrag

import (
	"fmt"
	"regexp"
	"strings"
)

// Denylist patterns for free-form expression strings. This is intentionally
// not a SQL parser: expressions supplied for aggregate and window contexts
// are embedded verbatim, so this is a last line of defense against the
// obvious injection shapes. Values never pass through here, they are always
// parameter-bound.
var (
	ddlDmlPattern = regexp.MustCompile(`(?i)\b(DROP|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|DELETE|INSERT|UPDATE)\b`)
	unionPattern  = regexp.MustCompile(`(?i)\bUNION\b`)

	// Repeated quote characters adjacent to OR/AND, or a quote immediately
	// followed by a statement separator. Classic tautology shapes like
	// "'' OR ''" land here. The quote-then-separator arm never fires from
	// CheckExpression, which rejects any semicolon outright first; it is
	// there so the pattern stands on its own.
	suspiciousQuotePattern = regexp.MustCompile(`(?i)''+\s*(OR|AND)\b|\b(OR|AND)\s*''+|'\s*;`)
)

// CheckExpression validates a free-form SQL expression supplied for an
// aggregate or window context. It returns ErrUnsafeExpression (wrapped with
// a human-readable reason and the context name) on the first failed check.
// Parameter values must never be routed through expressions; bind them
// through placeholders instead.
func CheckExpression(expr, context string) error {
	reject := func(reason string) error {
		return fmt.Errorf("%w: %s expression %q %s", ErrUnsafeExpression, context, expr, reason)
	}
	switch {
	case strings.Contains(expr, ";"):
		return reject("cannot contain semicolons")
	case strings.Contains(expr, "--"):
		return reject("cannot contain SQL comments")
	case strings.Contains(expr, "/*") || strings.Contains(expr, "*/"):
		return reject("cannot contain multi-line comments")
	case ddlDmlPattern.MatchString(expr):
		return reject("cannot contain DDL/DML keywords")
	case unionPattern.MatchString(expr):
		return reject("cannot contain UNION")
	case hasInvalidEscape(expr):
		return reject("contains invalid escape sequences")
	case suspiciousQuotePattern.MatchString(expr):
		return reject("contains suspicious quote patterns")
	}
	return nil
}

// hasInvalidEscape reports whether expr contains a backslash that is not
// immediately followed by a recognized escape character. An escaped pair is
// consumed as a unit, so `\\n` is two valid escapes, not an invalid one.
func hasInvalidEscape(expr string) bool {
	for i := 0; i < len(expr); i++ {
		if expr[i] != '\\' {
			continue
		}
		if i+1 >= len(expr) {
			return true
		}
		switch expr[i+1] {
		case '\\', '\'', '"', 'n', 'r', 't', 'b', 'f', '0':
			i++
		default:
			return true
		}
	}
	return false
}
