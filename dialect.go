package pgfrag

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
)

// Dialect defines the way a SQL statement is rendered.
//
// In PostgreSQL mode (the default for this package) ? placeholders are
// replaced with numbered positional arguments like $1, $2... NoDialect
// leaves fragments untouched; use it for engines that take ? natively:
//
//	q := pgfrag.NoDialect.From("table").Select("field")
//	...
//	q.Close()
//
// or switch the default:
//
//	pgfrag.SetDialect(pgfrag.NoDialect)
type Dialect struct {
	numbered  bool
	cacheOnce sync.Once
	cacheLock sync.RWMutex
	cache     sqlCache
}

var (
	// NoDialect renders statements with ? placeholders left as written.
	NoDialect = &Dialect{}
	// PostgreSQL renders ? placeholders as numbered arguments $1, $2...
	PostgreSQL = &Dialect{numbered: true}
)

var defaultDialect atomic.Pointer[Dialect]

func init() {
	defaultDialect.Store(PostgreSQL)
}

// SetDialect selects the Dialect used by the package-level statement
// constructors. The package default is PostgreSQL.
func SetDialect(d *Dialect) {
	defaultDialect.Store(d)
}

// New starts an SQL statement with an arbitrary verb.
//
// Use From, Select, InsertInto, Update or DeleteFrom methods to create
// an instance of an SQL statement builder for common statements.
func (d *Dialect) New(verb string, args ...interface{}) *Stmt {
	q := getStmt(d)
	q.addChunk(posSelect, verb, "", args, ", ")
	return q
}

// With starts a statement prepended by a WITH clause
// and closes the subquery passed as an argument.
func (d *Dialect) With(queryName string, query *Stmt) *Stmt {
	q := getStmt(d)
	return q.With(queryName, query)
}

// From starts a SELECT statement.
func (d *Dialect) From(expr string, args ...interface{}) *Stmt {
	q := getStmt(d)
	return q.From(expr, args...)
}

// Select starts a SELECT statement.
//
// Consider using From to start a SELECT statement - you may find
// it easier to read and maintain.
func (d *Dialect) Select(expr string, args ...interface{}) *Stmt {
	q := getStmt(d)
	return q.Select(expr, args...)
}

// Update starts an UPDATE statement.
func (d *Dialect) Update(tableName string) *Stmt {
	q := getStmt(d)
	return q.Update(tableName)
}

// InsertInto starts an INSERT statement.
func (d *Dialect) InsertInto(tableName string) *Stmt {
	q := getStmt(d)
	return q.InsertInto(tableName)
}

// DeleteFrom starts a DELETE statement.
func (d *Dialect) DeleteFrom(tableName string) *Stmt {
	q := getStmt(d)
	return q.DeleteFrom(tableName)
}

// writeNumbered copies s into buf replacing ? placeholders with $argNo,
// $argNo+1... A \? sequence emits a literal question mark. It returns the
// next unused argument number.
func writeNumbered(argNo int, s []byte, buf *bytebufferpool.ByteBuffer) int {
	start := 0
	for pos := 0; pos < len(s); pos++ {
		switch s[pos] {
		case '\\':
			if pos < len(s)-1 && s[pos+1] == '?' {
				_, _ = buf.Write(s[start:pos])
				_ = buf.WriteByte('?')
				pos++
				start = pos + 1
			}
		case '?':
			_, _ = buf.Write(s[start:pos])
			_ = buf.WriteByte('$')
			buf.B = strconv.AppendInt(buf.B, int64(argNo), 10)
			argNo++
			start = pos + 1
		}
	}
	if start < len(s) {
		_, _ = buf.Write(s[start:])
	}
	return argNo
}
