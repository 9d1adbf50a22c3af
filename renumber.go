package pgfrag

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// placeholderPattern captures the full digit run after $, so $1 and $10 are
// distinct numbers and neither matches inside the other.
var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// sentinelPattern matches the temporary tokens produced during renumbering.
// NUL can never appear in a valid SQL placeholder, so a half-rewritten text
// can never be re-matched as $<digits>.
var sentinelPattern = regexp.MustCompile("\x00(\\d+)\x00")

// Renumber rewrites the $N placeholders of a fragment so they continue a
// larger statement whose highest placeholder number is baseOffset. The
// fragment's distinct placeholder numbers are collected, sorted ascending
// and assigned consecutive numbers starting at baseOffset+1; sparse or
// out-of-order numbering is fine, e.g. a fragment using only $5 and $9
// maps them to $baseOffset+1 and $baseOffset+2.
//
// The returned argument slice holds the fragment's arguments reordered to
// match the new numbering (args is indexed by original local number,
// 1-based). Neither input is mutated. Renumber is total: it never fails on
// any well-formed $<digits> input.
//
// Naive in-place substitution of $1 -> $11 is unsafe here, because $1 is a
// textual prefix of $11, $12, ... and a later replacement could re-match an
// earlier one's output. The rewrite therefore goes through sentinel tokens
// that no $<digits> pattern can ever match.
func Renumber(text string, args []interface{}, baseOffset int) (string, []interface{}) {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	seen := make(map[int]bool, len(matches))
	locals := make([]int, 0, len(matches))
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		if !seen[n] {
			seen[n] = true
			locals = append(locals, n)
		}
	}
	sort.Ints(locals)

	mapping := make(map[int]int, len(locals))
	for i, n := range locals {
		mapping[n] = baseOffset + i + 1
	}

	// First pass: every $<digits> occurrence becomes a sentinel carrying its
	// target number. Second pass: sentinels become final $<number> text.
	out := placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return "\x00" + strconv.Itoa(mapping[n]) + "\x00"
	})
	out = sentinelPattern.ReplaceAllStringFunc(out, func(m string) string {
		return "$" + strings.Trim(m, "\x00")
	})

	// Arguments are read in the same ascending order of original local
	// numbers used to build the mapping, so each value lands at the position
	// its new global number refers to.
	reordered := make([]interface{}, 0, len(locals))
	for _, n := range locals {
		if n >= 1 && n <= len(args) {
			reordered = append(reordered, args[n-1])
		}
	}
	return out, reordered
}
