package pgfrag

// CTEBuilder accumulates common table expressions and assembles the WITH
// clause in declaration order. Names and column lists are sanitized when an
// entry is added; bodies get the same validation as subquery text.
//
// A builder is a mutable value scoped to one query-construction session; it
// is not safe for concurrent use, but independent builders never interact.
type CTEBuilder struct {
	entries []cteEntry
}

type cteEntry struct {
	name string // sanitized
	body string
	args []interface{}
	cols []string // sanitized
}

// NewCTEBuilder returns an empty CTE builder.
func NewCTEBuilder() *CTEBuilder {
	return &CTEBuilder{}
}

// With appends a CTE. The body keeps its own local $N numbering; it is
// renumbered against the enclosing statement by Build.
func (b *CTEBuilder) With(name, body string, args []interface{}, columns ...string) error {
	sanitized, err := Ident(name)
	if err != nil {
		return err
	}
	if err := checkSubquery(body); err != nil {
		return err
	}
	cols := make([]string, len(columns))
	for i, col := range columns {
		c, err := Ident(col)
		if err != nil {
			return err
		}
		cols[i] = c
	}
	argsCopy := make([]interface{}, len(args))
	copy(argsCopy, args)
	b.entries = append(b.entries, cteEntry{name: sanitized, body: body, args: argsCopy, cols: cols})
	return nil
}

// Len returns the number of accumulated CTEs.
func (b *CTEBuilder) Len() int {
	return len(b.entries)
}

// Clause emits "WITH name[(cols)] AS (body), ... " with a single trailing
// space, using each body's local placeholder numbering as written. Use Build
// to get collision-free numbering against a base query.
func (b *CTEBuilder) Clause() string {
	if len(b.entries) == 0 {
		return ""
	}
	return b.clause(func(e cteEntry) string { return e.body })
}

// Args returns the concatenation of every entry's arguments in declaration
// order. The slice is a copy.
func (b *CTEBuilder) Args() []interface{} {
	var args []interface{}
	for _, e := range b.entries {
		args = append(args, e.args...)
	}
	return args
}

// Build assembles the full statement: the WITH clause with every CTE body
// renumbered against the running parameter offset, followed by baseSQL with
// its placeholders renumbered last. The returned argument list holds each
// CTE's arguments in declaration order, then the base query's.
func (b *CTEBuilder) Build(baseSQL string, baseArgs []interface{}) (string, []interface{}) {
	if len(b.entries) == 0 {
		return Renumber(baseSQL, baseArgs, 0)
	}

	offset := 0
	merged := make([]interface{}, 0, len(baseArgs))
	bodies := make([]string, len(b.entries))
	for i, e := range b.entries {
		text, args := Renumber(e.body, e.args, offset)
		bodies[i] = text
		merged = append(merged, args...)
		offset += len(args)
	}
	baseText, baseRenumbered := Renumber(baseSQL, baseArgs, offset)
	merged = append(merged, baseRenumbered...)

	i := 0
	clause := b.clause(func(cteEntry) string {
		body := bodies[i]
		i++
		return body
	})
	return clause + baseText, merged
}

// Clone returns a deep, independent copy: mutating one builder after
// cloning is never observed by the other.
func (b *CTEBuilder) Clone() *CTEBuilder {
	clone := &CTEBuilder{entries: make([]cteEntry, len(b.entries))}
	for i, e := range b.entries {
		args := make([]interface{}, len(e.args))
		copy(args, e.args)
		cols := make([]string, len(e.cols))
		copy(cols, e.cols)
		clone.entries[i] = cteEntry{name: e.name, body: e.body, args: args, cols: cols}
	}
	return clone
}

// clause renders the WITH clause, taking each entry's body text from
// bodyOf so Clause and Build can share the formatting.
func (b *CTEBuilder) clause(bodyOf func(cteEntry) string) string {
	buf := getBuffer()
	defer putBuffer(buf)

	_, _ = buf.WriteString("WITH ")
	for i, e := range b.entries {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(e.name)
		if len(e.cols) > 0 {
			_ = buf.WriteByte('(')
			for j, col := range e.cols {
				if j > 0 {
					_, _ = buf.WriteString(", ")
				}
				_, _ = buf.WriteString(col)
			}
			_ = buf.WriteByte(')')
		}
		_, _ = buf.WriteString(" AS (")
		_, _ = buf.WriteString(bodyOf(e))
		_ = buf.WriteByte(')')
	}
	// A single trailing space separates the clause from the base query.
	_ = buf.WriteByte(' ')
	return buf.String()
}
