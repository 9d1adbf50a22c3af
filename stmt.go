package pgfrag

import (
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

/*
New initializes a SQL statement builder instance with an arbitrary verb,
using the default dialect.

Use pgfrag.Select(), pgfrag.InsertInto(), pgfrag.DeleteFrom() to start
common SQL statements.

Use New for special cases like this:

	q := pgfrag.New("TRUNCATE")
	for _, table := range tableNames {
		q.Expr(table)
	}
	q.Clause("RESTART IDENTITY")
	_, err := q.ExecAndClose(ctx, db)
	if err != nil {
		panic(err)
	}
*/
func New(verb string, args ...interface{}) *Stmt {
	return defaultDialect.Load().New(verb, args...)
}

/*
From starts a SELECT statement.

	var cnt int64

	err := pgfrag.From("table").
		Select("COUNT(*)").To(&cnt).
		Where("value >= ?", 42).
		QueryRowAndClose(ctx, db)
	if err != nil {
		panic(err)
	}
*/
func From(expr string, args ...interface{}) *Stmt {
	return defaultDialect.Load().From(expr, args...)
}

/*
Select starts a SELECT statement.

Note that the From method can also be used to start a SELECT statement.
*/
func Select(expr string, args ...interface{}) *Stmt {
	return defaultDialect.Load().Select(expr, args...)
}

// Update starts an UPDATE statement.
//
//	err := pgfrag.Update("table").
//		Set("field1", "newvalue").
//		Where("id = ?", 42).
//		ExecAndClose(ctx, db)
func Update(tableName string) *Stmt {
	return defaultDialect.Load().Update(tableName)
}

// InsertInto starts an INSERT statement.
func InsertInto(tableName string) *Stmt {
	return defaultDialect.Load().InsertInto(tableName)
}

// DeleteFrom starts a DELETE statement.
//
//	err := pgfrag.DeleteFrom("table").Where("id = ?", id).ExecAndClose(ctx, db)
func DeleteFrom(tableName string) *Stmt {
	return defaultDialect.Load().DeleteFrom(tableName)
}

// With starts a statement prepended by a WITH clause.
func With(queryName string, query *Stmt) *Stmt {
	return defaultDialect.Load().With(queryName, query)
}

type stmtChunk struct {
	pos     int
	bufLow  int
	bufHigh int
	hasExpr bool
	argLen  int
}
type stmtChunks []stmtChunk

/*
Stmt provides a set of helper methods for SQL statement building and
execution.

Use one of the following methods to create a SQL statement builder instance:

	pgfrag.From("table")
	pgfrag.Select("field")
	pgfrag.InsertInto("table")
	pgfrag.Update("table")
	pgfrag.DeleteFrom("table")

For other SQL statements use New:

	q := pgfrag.New("TRUNCATE")
	for _, table := range tablesToBeEmptied {
		q.Expr(table)
	}
	_, err := q.ExecAndClose(ctx, db)
	if err != nil {
		panic(err)
	}
*/
type Stmt struct {
	dialect *Dialect
	pos     int
	chunks  stmtChunks
	buf     *bytebufferpool.ByteBuffer
	sql     *bytebufferpool.ByteBuffer
	args    []interface{}
	dest    []interface{}
}

/*
Select adds a SELECT clause to a statement and/or appends
an expression that defines columns of a resulting data set.

	q := pgfrag.Select("DISTINCT field1, field2").From("table")

Select can be called multiple times to add more columns:

	q := pgfrag.From("table").Select("field1")
	if needField2 {
		q.Select("field2")
	}
	// ...
	q.Close()

Use the To method to bind variables to selected columns:

	var (
		num  int
		name string
	)

	err := pgfrag.From("table").
		Select("num, name").To(&num, &name).
		Where("id = ?", 42).
		QueryRowAndClose(ctx, db)
	if err != nil {
		panic(err)
	}

Note that a SELECT statement can also be started by a From method call.
*/
func (q *Stmt) Select(expr string, args ...interface{}) *Stmt {
	q.addChunk(posSelect, "SELECT", expr, args, ", ")
	return q
}

/*
To sets a scan target for columns to be selected.

Accepts value pointers to be passed to sql.Rows.Scan by
Query and QueryRow methods.

To method MUST be called immediately after Select, Returning or another
method that defines data to be returned.
*/
func (q *Stmt) To(dest ...interface{}) *Stmt {
	if len(dest) > 0 {
		// As Scan bindings make sense for a single clause per statement,
		// the order expressions appear in SQL matches the order expressions
		// are added. So dest value pointers can safely be appended
		// to the list on every To call.
		q.dest = insertAt(q.dest, dest, len(q.dest))
	}
	return q
}

/*
Update adds an UPDATE clause to a statement.

	q.Update("table")

tableName argument can be a SQL fragment:

	q.Update("ONLY table AS t")
*/
func (q *Stmt) Update(tableName string) *Stmt {
	q.addChunk(posUpdate, "UPDATE", tableName, nil, ", ")
	return q
}

/*
InsertInto adds an INSERT INTO clause to a statement.

	q.InsertInto("table")

tableName argument can be a SQL fragment:

	q.InsertInto("table AS t")
*/
func (q *Stmt) InsertInto(tableName string) *Stmt {
	q.addChunk(posInsert, "INSERT INTO", tableName, nil, ", ")
	q.addChunk(posInsertFields-1, "(", "", nil, "")
	q.addChunk(posValues-1, ") VALUES (", "", nil, "")
	q.addChunk(posValues+1, ")", "", nil, "")
	q.pos = posInsertFields
	return q
}

/*
DeleteFrom adds a DELETE clause to a statement.

	q.DeleteFrom("table").Where("id = ?", id)
*/
func (q *Stmt) DeleteFrom(tableName string) *Stmt {
	q.addChunk(posDelete, "DELETE FROM", tableName, nil, ", ")
	return q
}

/*
Set method:

- Adds a column to the list of columns and a value to VALUES clause of an
INSERT statement,

- Adds an item to SET clause of an UPDATE statement.

	q.Set("field", 32)

For INSERT statements a call to Set method generates
both the list of columns and values to be inserted:

	q := pgfrag.InsertInto("table").Set("field", 42)

produces

	INSERT INTO table (field) VALUES (42)
*/
func (q *Stmt) Set(field string, value interface{}) *Stmt {
	return q.SetExpr(field, "?", value)
}

/*
SetExpr is an extended version of the Set method.

	q.SetExpr("field", "field + 1")
	q.SetExpr("field", "? + ?", 31, 11)
*/
func (q *Stmt) SetExpr(field, expr string, args ...interface{}) *Stmt {
	p := 0
	for _, chunk := range q.chunks {
		if chunk.pos == posInsert || chunk.pos == posUpdate {
			p = chunk.pos
			break
		}
	}

	switch p {
	case posInsert:
		q.addChunk(posInsertFields, "", field, nil, ", ")
		q.addChunk(posValues, "", expr, args, ", ")
	case posUpdate:
		q.addChunk(posSet, "SET", field+"="+expr, args, ", ")
	}
	return q
}

// From adds a FROM clause to a statement.
func (q *Stmt) From(expr string, args ...interface{}) *Stmt {
	q.addChunk(posFrom, "FROM", expr, args, ", ")
	return q
}

/*
Where adds a filter:

	pgfrag.From("users").
		Select("id, name").
		Where("email = ?", email).
		Where("is_active = 1")
*/
func (q *Stmt) Where(expr string, args ...interface{}) *Stmt {
	q.addChunk(posWhere, "WHERE", expr, args, " AND ")
	return q
}

/*
WhereFragment adds a composed fragment (an IN/EXISTS subquery built by
InSubquery and friends, or any prebuilt Fragment) to the current filter.
The fragment's $N placeholders are rewritten to ? so the final numbering is
assigned once, at statement build time.
*/
func (q *Stmt) WhereFragment(f Fragment) *Stmt {
	text, args := fragmentToChunk(f)
	return q.Where(text, args...)
}

/*
In adds an IN expression to the current filter.

In method must be called after a Where method call.
*/
func (q *Stmt) In(args ...interface{}) *Stmt {
	buf := bytebufferpool.Get()
	_, _ = buf.WriteString("IN (")
	l := len(args) - 1
	for i := range args {
		if i < l {
			_, _ = buf.Write(placeholderComma)
		} else {
			_, _ = buf.Write(placeholder)
		}
	}
	_, _ = buf.WriteString(")")

	q.addChunk(posWhere, "", bufToString(&buf.B), args, " ")

	bytebufferpool.Put(buf)
	return q
}

// Join adds an INNER JOIN clause to a SELECT statement.
func (q *Stmt) Join(table, on string) *Stmt {
	q.join("JOIN ", table, on)
	return q
}

// LeftJoin adds a LEFT OUTER JOIN clause to a SELECT statement.
func (q *Stmt) LeftJoin(table, on string) *Stmt {
	q.join("LEFT JOIN ", table, on)
	return q
}

// RightJoin adds a RIGHT OUTER JOIN clause to a SELECT statement.
func (q *Stmt) RightJoin(table, on string) *Stmt {
	q.join("RIGHT JOIN ", table, on)
	return q
}

// FullJoin adds a FULL OUTER JOIN clause to a SELECT statement.
func (q *Stmt) FullJoin(table, on string) *Stmt {
	q.join("FULL JOIN ", table, on)
	return q
}

// OrderBy adds the ORDER BY clause to a SELECT statement.
func (q *Stmt) OrderBy(expr ...string) *Stmt {
	q.addChunk(posOrderBy, "ORDER BY", strings.Join(expr, ", "), nil, ", ")
	return q
}

// GroupBy adds the GROUP BY clause to a SELECT statement.
func (q *Stmt) GroupBy(expr string) *Stmt {
	q.addChunk(posGroupBy, "GROUP BY", expr, nil, ", ")
	return q
}

// Having adds the HAVING clause to a SELECT statement.
func (q *Stmt) Having(expr string, args ...interface{}) *Stmt {
	q.addChunk(posHaving, "HAVING", expr, args, " AND ")
	return q
}

/*
GroupByChecked validates expr with CheckExpression before adding it to the
GROUP BY clause. On rejection the statement is left unchanged.

Use the checked variants when clause expressions come from outside the
program, e.g. a user-selected aggregation column:

	q, err := q.GroupByChecked(userField)
	if err != nil {
		return err
	}
*/
func (q *Stmt) GroupByChecked(expr string) (*Stmt, error) {
	if err := CheckExpression(expr, "GROUP BY"); err != nil {
		return q, err
	}
	return q.GroupBy(expr), nil
}

// HavingChecked validates expr with CheckExpression before adding a HAVING
// clause. On rejection the statement is left unchanged.
func (q *Stmt) HavingChecked(expr string, args ...interface{}) (*Stmt, error) {
	if err := CheckExpression(expr, "HAVING"); err != nil {
		return q, err
	}
	return q.Having(expr, args...), nil
}

// OrderByChecked validates every expression with CheckExpression before
// adding the ORDER BY clause. All expressions are checked first; a rejection
// leaves the statement unchanged.
func (q *Stmt) OrderByChecked(expr ...string) (*Stmt, error) {
	for _, e := range expr {
		if err := CheckExpression(e, "ORDER BY"); err != nil {
			return q, err
		}
	}
	return q.OrderBy(expr...), nil
}

// SetExprChecked sanitizes the field name with Ident and validates expr with
// CheckExpression before delegating to SetExpr. On rejection the statement
// is left unchanged.
func (q *Stmt) SetExprChecked(field, expr string, args ...interface{}) (*Stmt, error) {
	col, err := Ident(field)
	if err != nil {
		return q, err
	}
	if err := CheckExpression(expr, "SET"); err != nil {
		return q, err
	}
	return q.SetExpr(col, expr, args...), nil
}

// Limit adds a limit on the number of returned rows.
func (q *Stmt) Limit(limit interface{}) *Stmt {
	q.addChunk(posLimit, "LIMIT ?", "", []interface{}{limit}, "")
	return q
}

// Offset adds an offset on the returned rows.
func (q *Stmt) Offset(offset interface{}) *Stmt {
	q.addChunk(posOffset, "OFFSET ?", "", []interface{}{offset}, "")
	return q
}

// Paginate provides an easy way to set both offset and limit.
func (q *Stmt) Paginate(page, pageSize int) *Stmt {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if page > 1 {
		q.Offset((page - 1) * pageSize)
	}
	q.Limit(pageSize)
	return q
}

// Returning adds a RETURNING clause to a statement.
func (q *Stmt) Returning(expr string) *Stmt {
	q.addChunk(posReturning, "RETURNING", expr, nil, ", ")
	return q
}

// With prepends a statement with a WITH clause.
// With method calls the Close method of the given query, so
// make sure not to reuse it afterwards.
func (q *Stmt) With(queryName string, query *Stmt) *Stmt {
	q.addChunk(posWith, "WITH", "", nil, "")
	return q.SubQuery(queryName+" AS (", ")", query)
}

/*
Expr appends an expression to the most recently added clause.

Expressions are separated with commas.
*/
func (q *Stmt) Expr(expr string, args ...interface{}) *Stmt {
	q.addChunk(q.pos, "", expr, args, ", ")
	return q
}

/*
SubQuery appends a subquery expression to the current clause.

SubQuery method call closes the Stmt passed as the query parameter.
Do not reuse it afterwards.
*/
func (q *Stmt) SubQuery(prefix, suffix string, query *Stmt) *Stmt {
	delimiter := ", "
	if q.pos == posWhere {
		delimiter = " AND "
	}
	index := q.addChunk(q.pos, "", prefix, query.args, delimiter)
	chunk := &q.chunks[index]
	// Make sure the subquery is not rendered with numbered placeholders of
	// its own: numbering is assigned once, when the outer statement is built.
	if query.dialect != NoDialect {
		query.dialect = NoDialect
		query.Invalidate()
	}
	_, _ = q.buf.WriteString(query.String())
	_, _ = q.buf.WriteString(suffix)
	chunk.bufHigh = q.buf.Len()
	// Close the subquery
	query.Close()

	return q
}

/*
Union adds a UNION clause to the statement.

The all argument controls if a UNION ALL or a UNION clause
is to be constructed. Use UNION ALL if possible to
get faster queries.
*/
func (q *Stmt) Union(all bool, query *Stmt) *Stmt {
	if all {
		return q.setOp("UNION ALL ", query)
	}
	return q.setOp("UNION ", query)
}

// Intersect adds an INTERSECT clause to the statement.
func (q *Stmt) Intersect(query *Stmt) *Stmt {
	return q.setOp("INTERSECT ", query)
}

// Except adds an EXCEPT clause to the statement.
func (q *Stmt) Except(query *Stmt) *Stmt {
	return q.setOp("EXCEPT ", query)
}

// setOp appends a set-operation branch after every clause added so far.
// The branch statement is closed, like SubQuery does.
func (q *Stmt) setOp(op string, query *Stmt) *Stmt {
	p := posUnion
	if len(q.chunks) > 0 {
		last := (&q.chunks[len(q.chunks)-1]).pos
		if last >= p {
			p = last + 1
		}
	}
	index := q.addChunk(p, op, "", query.args, "")
	chunk := &q.chunks[index]
	if query.dialect != NoDialect {
		query.dialect = NoDialect
		query.Invalidate()
	}
	_, _ = q.buf.WriteString(query.String())
	chunk.bufHigh = q.buf.Len()
	query.Close()

	return q
}

/*
Clause appends a raw SQL fragment to the statement.

Use it to add a raw SQL fragment like ON CONFLICT, WINDOW, etc.

An SQL fragment added via Clause method appears after the last clause
previously added. If called first, Clause method prepends a statement
with a raw SQL.
*/
func (q *Stmt) Clause(expr string, args ...interface{}) *Stmt {
	p := posStart
	if len(q.chunks) > 0 {
		p = (&q.chunks[len(q.chunks)-1]).pos + 10
	}
	q.addChunk(p, expr, "", args, ", ")
	return q
}

// String method builds and returns an SQL statement.
func (q *Stmt) String() string {
	if q.sql == nil {
		sql, ok := q.dialect.getCachedSQL(q.buf)
		buf := getBuffer()
		q.sql = buf
		if ok {
			_, _ = buf.WriteString(sql)
		} else {
			q.write(buf, q.dialect.numbered)
			q.dialect.putCachedSQL(q.buf, string(buf.B))
		}
	}
	return bufToString(&q.sql.B)
}

/*
Args returns the list of arguments to be passed to
the database driver for statement execution.

Do not access a slice returned by this method after Stmt is closed.

An array, a returned slice points to, can be altered by any method that
adds a clause or an expression with arguments.

Make sure to make a copy of the returned slice if you need to preserve it.
*/
func (q *Stmt) Args() []interface{} {
	return q.args
}

// Build returns the SQL statement text along with its arguments.
func (q *Stmt) Build() (string, []interface{}) {
	return q.String(), q.args
}

/*
Fragment renders the statement with numbered placeholders and returns it as
a core Fragment, ready for use with the CTE and set-operation builders or
with Renumber. The argument slice is a copy, so the fragment stays valid
after the statement is closed.
*/
func (q *Stmt) Fragment() Fragment {
	buf := getBuffer()
	defer putBuffer(buf)
	q.write(buf, true)
	args := make([]interface{}, len(q.args))
	copy(args, q.args)
	return Fragment{Text: string(buf.B), Args: args}
}

/*
Dest returns a list of value pointers passed via To method calls.
The order matches the constructed SQL statement.

Do not access a slice returned by this method after Stmt is closed.
*/
func (q *Stmt) Dest() []interface{} {
	return q.dest
}

/*
Invalidate forces a rebuild on the next query execution.

Most likely you don't need to call this method directly.
*/
func (q *Stmt) Invalidate() {
	if q.sql != nil {
		putBuffer(q.sql)
		q.sql = nil
	}
}

/*
Close puts buffers and other objects allocated to build an SQL statement
back to a pool for reuse by other Stmt instances.

Stmt instance should not be used after Close method call.
*/
func (q *Stmt) Close() {
	reuseStmt(q)
}

// Clone creates a copy of the statement. The copy has its own backing
// buffers and argument list, so the two statements never observe each
// other's mutations.
func (q *Stmt) Clone() *Stmt {
	stmt := getStmt(q.dialect)
	if cap(stmt.chunks) < len(q.chunks) {
		stmt.chunks = make(stmtChunks, len(q.chunks), len(q.chunks)+2)
		copy(stmt.chunks, q.chunks)
	} else {
		stmt.chunks = append(stmt.chunks, q.chunks...)
	}
	stmt.pos = q.pos
	stmt.args = insertAt(stmt.args, q.args, 0)
	stmt.dest = insertAt(stmt.dest, q.dest, 0)
	_, _ = stmt.buf.Write(q.buf.B)
	if q.sql != nil {
		stmt.sql = getBuffer()
		_, _ = stmt.sql.Write(q.sql.B)
	}

	return stmt
}

// write renders the statement chunks into buf in position order, replacing
// ? placeholders with numbered ones when numbered is set.
func (q *Stmt) write(buf *bytebufferpool.ByteBuffer, numbered bool) {
	argNo := 1
	pos := 0
	for n, chunk := range q.chunks {
		// Separate clauses with spaces
		if n > 0 && chunk.pos > pos {
			_, _ = buf.Write(space)
		}
		s := q.buf.B[chunk.bufLow:chunk.bufHigh]
		if chunk.argLen > 0 && numbered {
			argNo = writeNumbered(argNo, s, buf)
		} else {
			_, _ = buf.Write(s)
		}
		pos = chunk.pos
	}
}

// join adds a join clause to a SELECT statement.
func (q *Stmt) join(joinType, table, on string) (index int) {
	buf := bytebufferpool.Get()
	_, _ = buf.WriteString(joinType)
	_, _ = buf.WriteString(table)
	_, _ = buf.Write(joinOn)
	_, _ = buf.WriteString(on)
	_ = buf.WriteByte(')')

	index = q.addChunk(posFrom, "", bufToString(&buf.B), nil, " ")

	bytebufferpool.Put(buf)

	return index
}

// addChunk adds a clause or expression to a statement.
func (q *Stmt) addChunk(pos int, clause, expr string, args []interface{}, sep string) (index int) {
	// Remember the position
	q.pos = pos

	argLen := len(args)
	bufLow := len(q.buf.B)
	index = len(q.chunks)
	argTail := 0

	addNew := true
	addClause := clause != ""

	// Find the position to insert a chunk to
loop:
	for i := index - 1; i >= 0; i-- {
		chunk := &q.chunks[i]
		index = i
		switch {
		// See if an existing chunk can be extended
		case chunk.pos == pos:
			// Do nothing if a clause is already there and no expressions are to be added
			if expr == "" {
				return i
			}
			// Write a separator
			if chunk.hasExpr {
				_, _ = q.buf.WriteString(sep)
			} else {
				_, _ = q.buf.WriteString(" ")
			}
			if chunk.bufHigh == bufLow {
				// Do not add a chunk
				addNew = false
				// Update the existing one
				_, _ = q.buf.WriteString(expr)
				chunk.argLen += argLen
				chunk.bufHigh = len(q.buf.B)
				chunk.hasExpr = true
			} else {
				// Do not add a clause
				addClause = false
				index = i + 1
			}
			break loop
		// No existing chunks of this type
		case chunk.pos < pos:
			index = i + 1
			break loop
		default:
			argTail += chunk.argLen
		}
	}

	if addNew {
		// Insert a new chunk
		if addClause {
			_, _ = q.buf.WriteString(clause)
			if expr != "" {
				_, _ = q.buf.WriteString(" ")
			}
		}
		_, _ = q.buf.WriteString(expr)

		if cap(q.chunks) == len(q.chunks) {
			chunks := make(stmtChunks, len(q.chunks), cap(q.chunks)*2)
			copy(chunks, q.chunks)
			q.chunks = chunks
		}

		chunk := stmtChunk{
			pos:     pos,
			bufLow:  bufLow,
			bufHigh: len(q.buf.B),
			argLen:  argLen,
			hasExpr: expr != "",
		}

		q.chunks = append(q.chunks, chunk)
		if index < len(q.chunks)-1 {
			copy(q.chunks[index+1:], q.chunks[index:])
			q.chunks[index] = chunk
		}
	}

	// Insert query arguments
	if argLen > 0 {
		q.args = insertAt(q.args, args, len(q.args)-argTail)
	}
	q.Invalidate()

	return index
}

// fragmentToChunk rewrites a fragment's $N placeholders as ? markers so the
// text can enter a chunk-based statement whose numbering is assigned at
// build time. Arguments are emitted in textual occurrence order, with values
// of repeated placeholders duplicated, since ? markers bind positionally.
// Question marks already present in the fragment are escaped first.
func fragmentToChunk(f Fragment) (string, []interface{}) {
	escaped := strings.ReplaceAll(f.Text, "?", "\\?")
	var args []interface{}
	text := placeholderPattern.ReplaceAllStringFunc(escaped, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		if n >= 1 && n <= len(f.Args) {
			args = append(args, f.Args[n-1])
		}
		return "?"
	})
	return text, args
}

var (
	space            = []byte{' '}
	placeholder      = []byte{'?'}
	placeholderComma = []byte{'?', ','}
	joinOn           = []byte{' ', 'O', 'N', ' ', '('}
)

const (
	_        = iota
	posStart = 100 * iota
	posWith
	posInsert
	posInsertFields
	posValues
	posDelete
	posUpdate
	posSet
	posSelect
	posInto
	posFrom
	posWhere
	posGroupBy
	posHaving
	posUnion
	posOrderBy
	posLimit
	posOffset
	posReturning
	posEnd
)
