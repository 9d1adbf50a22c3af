package pgfrag

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	simpleIdentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	qualifiedPattern   = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Character sequences that are never legitimate inside an identifier and
// indicate an injection attempt. Checked before any quoting is attempted.
var dangerousSequences = []string{";", "--", "/*", "*/", `\`}

// Ident sanitizes a table, column or alias name so it is safe to embed in
// SQL text. Simple names that are not reserved words pass through verbatim;
// anything else is double-quoted with internal double quotes doubled.
// Two-segment chains like "schema.table" are sanitized per segment.
//
// Two classes of input skip sanitization entirely:
//
//   - names whose trimmed text starts with "(" are treated as pre-validated
//     subquery expressions and returned unchanged. This is an escape hatch
//     for trusted composed fragments, not for raw user input;
//   - complex expressions recognized by IsComplexExpression (JSON operators,
//     concatenation, arithmetic) are returned unchanged, since they must be
//     built from already-sanitized pieces by the caller.
//
// Names containing a semicolon, a comment marker, or a backslash fail with
// ErrInvalidIdentifier.
func Ident(name string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(name), "(") {
		return name, nil
	}
	for _, seq := range dangerousSequences {
		if strings.Contains(name, seq) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidIdentifier, name, seq)
		}
	}
	if IsComplexExpression(name) {
		return name, nil
	}
	if strings.ContainsAny(name, `'"`) {
		return "", fmt.Errorf("%w: %q contains a quote character", ErrInvalidIdentifier, name)
	}
	if qualifiedPattern.MatchString(name) {
		segments := strings.Split(name, ".")
		for i, seg := range segments {
			segments[i] = quoteSegment(seg)
		}
		return strings.Join(segments, "."), nil
	}
	// A dotted string that is not a clean two-segment chain is treated as a
	// single identifier: it gets quoted below, not rejected.
	return quoteSegment(name), nil
}

// quoteSegment emits a single identifier segment: verbatim when it is a
// simple non-reserved name, double-quoted otherwise.
func quoteSegment(seg string) string {
	if simpleIdentPattern.MatchString(seg) && !IsReservedWord(seg) {
		return seg
	}
	return `"` + strings.ReplaceAll(seg, `"`, `""`) + `"`
}

// Substrings that mark a string as a composed expression rather than a
// plain identifier: JSON(B) operators, string concatenation and the
// jsonb markers. A bare "-" (subtraction) is handled separately.
var complexMarkers = []string{
	"->>", "->", "#>>", "#>", "@>", "<@", "?|", "?&", "@?", "@@", "#-", "?",
	"||", "jsonb_", "::jsonb",
}

// IsComplexExpression reports whether s looks like an expression composed
// of multiple operands (JSON operators, concatenation, subtraction) rather
// than a single identifier. Such strings are passed through by Ident
// unsanitized; the caller is responsible for having built them from
// already-sanitized pieces.
func IsComplexExpression(s string) bool {
	for _, marker := range complexMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return containsBareMinus(s)
}

// containsBareMinus reports whether s contains a "-" used as subtraction,
// i.e. one that is not part of a "->", "->>" or "#-" operator. Comment
// markers ("--") are screened out by Ident before this check runs.
func containsBareMinus(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '>' {
			i++ // part of -> or ->>
			continue
		}
		if i > 0 && s[i-1] == '#' {
			continue // part of #-
		}
		return true
	}
	return false
}
