package pgfrag

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Lexer states for StripComments. The states are mutually exclusive:
// once inside a quoted region nothing but the matching closing delimiter
// is interpreted.
const (
	stateNormal = iota
	stateSingleQuote
	stateDoubleQuote
	stateDollarQuote
)

// StripComments removes SQL comments from sql while preserving every string
// literal byte-for-byte. It understands single-quoted and double-quoted
// strings (with doubled-quote escapes) and dollar-quoted strings with an
// optional tag ($$...$$, $tag$...$tag$).
//
// Malformed input never fails:
//
//   - an unterminated single or double quote preserves everything from the
//     opening quote to the end of input,
//   - an unterminated block comment discards everything from "/*" to the end
//     of input,
//   - a stray "*/" with no matching "/*" is ordinary text.
//
// Line comments are dropped up to, but not including, the newline.
func StripComments(sql string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	state := stateNormal
	closing := "" // closing delimiter of the current dollar quote
	n := len(sql)

	for i := 0; i < n; {
		c := sql[i]
		switch state {
		case stateNormal:
			switch {
			case c == '\'':
				buf.WriteByte(c)
				state = stateSingleQuote
				i++
			case c == '"':
				buf.WriteByte(c)
				state = stateDoubleQuote
				i++
			case c == '$':
				if tag, width, ok := dollarQuoteOpen(sql[i:]); ok {
					_, _ = buf.WriteString(sql[i : i+width])
					closing = "$" + tag + "$"
					state = stateDollarQuote
					i += width
				} else {
					buf.WriteByte(c)
					i++
				}
			case c == '-' && i+1 < n && sql[i+1] == '-':
				// Drop the comment text; the trailing newline is kept.
				for i < n && sql[i] != '\n' {
					i++
				}
			case c == '/' && i+1 < n && sql[i+1] == '*':
				end := strings.Index(sql[i+2:], "*/")
				if end < 0 {
					i = n
				} else {
					i += 2 + end + 2
				}
			default:
				buf.WriteByte(c)
				i++
			}

		case stateSingleQuote:
			if c == '\'' && i+1 < n && sql[i+1] == '\'' {
				// Doubled quote is an escaped unit, the region stays open.
				_, _ = buf.WriteString("''")
				i += 2
				break
			}
			buf.WriteByte(c)
			if c == '\'' {
				state = stateNormal
			}
			i++

		case stateDoubleQuote:
			if c == '"' && i+1 < n && sql[i+1] == '"' {
				_, _ = buf.WriteString(`""`)
				i += 2
				break
			}
			buf.WriteByte(c)
			if c == '"' {
				state = stateNormal
			}
			i++

		case stateDollarQuote:
			// Only the byte-identical closing tag ends the region. A
			// delimiter with a different tag is ordinary text, which is
			// what makes nesting of different-tagged regions work.
			if c == '$' && strings.HasPrefix(sql[i:], closing) {
				_, _ = buf.WriteString(closing)
				i += len(closing)
				state = stateNormal
			} else {
				buf.WriteByte(c)
				i++
			}
		}
	}
	return buf.String()
}

// dollarQuoteOpen matches a dollar-quote opening delimiter at the start of s
// (which is known to begin with '$'): a '$', zero or more tag characters and
// another '$'. It returns the tag and the delimiter width.
func dollarQuoteOpen(s string) (tag string, width int, ok bool) {
	j := 1
	for j < len(s) && isDollarTagChar(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '$' {
		return s[1:j], j + 1, true
	}
	return "", 0, false
}

func isDollarTagChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
