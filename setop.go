package pgfrag

// Set operation keywords accepted by SetOpBuilder.
const (
	opUnion     = "UNION"
	opUnionAll  = "UNION ALL"
	opIntersect = "INTERSECT"
	opExcept    = "EXCEPT"
)

// SetOpBuilder accumulates UNION/INTERSECT/EXCEPT branches, each written
// with its own local $N numbering, and merges them with a base query into
// one statement with sequential, collision-free placeholder numbers.
//
// Like CTEBuilder, a SetOpBuilder is a mutable value for a single
// query-construction session.
type SetOpBuilder struct {
	branches []setOpBranch
}

type setOpBranch struct {
	op   string
	sql  string
	args []interface{}
}

// NewSetOpBuilder returns an empty set-operation builder.
func NewSetOpBuilder() *SetOpBuilder {
	return &SetOpBuilder{}
}

// Union appends a UNION branch.
func (b *SetOpBuilder) Union(sql string, args ...interface{}) error {
	return b.add(opUnion, sql, args)
}

// UnionAll appends a UNION ALL branch.
func (b *SetOpBuilder) UnionAll(sql string, args ...interface{}) error {
	return b.add(opUnionAll, sql, args)
}

// Intersect appends an INTERSECT branch.
func (b *SetOpBuilder) Intersect(sql string, args ...interface{}) error {
	return b.add(opIntersect, sql, args)
}

// Except appends an EXCEPT branch.
func (b *SetOpBuilder) Except(sql string, args ...interface{}) error {
	return b.add(opExcept, sql, args)
}

// Len returns the number of accumulated branches.
func (b *SetOpBuilder) Len() int {
	return len(b.branches)
}

// Build merges the base query with every branch in declaration order. The
// base keeps its numbering; each branch is renumbered against the running
// total of the base parameters plus all prior branches. The returned
// argument list is the base arguments followed by each branch's, in order.
func (b *SetOpBuilder) Build(baseSQL string, baseArgs []interface{}) (string, []interface{}) {
	merged := make([]interface{}, len(baseArgs), len(baseArgs)+4)
	copy(merged, baseArgs)
	if len(b.branches) == 0 {
		return baseSQL, merged
	}

	buf := getBuffer()
	defer putBuffer(buf)
	_, _ = buf.WriteString(baseSQL)

	offset := len(baseArgs)
	for _, branch := range b.branches {
		text, args := Renumber(branch.sql, branch.args, offset)
		offset += len(args)
		merged = append(merged, args...)
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(branch.op)
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(text)
	}
	return buf.String(), merged
}

// Clone returns a deep, independent copy of the builder.
func (b *SetOpBuilder) Clone() *SetOpBuilder {
	clone := &SetOpBuilder{branches: make([]setOpBranch, len(b.branches))}
	for i, branch := range b.branches {
		args := make([]interface{}, len(branch.args))
		copy(args, branch.args)
		clone.branches[i] = setOpBranch{op: branch.op, sql: branch.sql, args: args}
	}
	return clone
}

func (b *SetOpBuilder) add(op, sql string, args []interface{}) error {
	if err := checkSubquery(sql); err != nil {
		return err
	}
	argsCopy := make([]interface{}, len(args))
	copy(argsCopy, args)
	b.branches = append(b.branches, setOpBranch{op: op, sql: sql, args: argsCopy})
	return nil
}
