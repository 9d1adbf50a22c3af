package pgfrag

import "strings"

// reservedWords lists SQL keywords that must be double-quoted when used as
// identifiers. The set is fixed for the process lifetime and consulted
// read-only; the zero-size struct value keeps the map compact.
var reservedWords = map[string]struct{}{
	"ALL": {}, "ANALYSE": {}, "ANALYZE": {}, "AND": {}, "ANY": {}, "ARRAY": {},
	"AS": {}, "ASC": {}, "ASYMMETRIC": {}, "AUTHORIZATION": {}, "BETWEEN": {},
	"BINARY": {}, "BOTH": {}, "BY": {}, "CASE": {}, "CAST": {}, "CHECK": {},
	"COLLATE": {}, "COLUMN": {}, "CONSTRAINT": {}, "CREATE": {}, "CROSS": {},
	"CURRENT_DATE": {}, "CURRENT_ROLE": {}, "CURRENT_TIME": {},
	"CURRENT_TIMESTAMP": {}, "CURRENT_USER": {}, "DEFAULT": {},
	"DEFERRABLE": {}, "DELETE": {}, "DESC": {}, "DISTINCT": {}, "DO": {},
	"DROP": {}, "ELSE": {}, "END": {}, "EXCEPT": {}, "EXISTS": {}, "FALSE": {},
	"FETCH": {}, "FOR": {}, "FOREIGN": {}, "FREEZE": {}, "FROM": {},
	"FULL": {}, "GRANT": {}, "GROUP": {}, "HAVING": {}, "ILIKE": {}, "IN": {},
	"INITIALLY": {}, "INNER": {}, "INSERT": {}, "INTERSECT": {}, "INTO": {},
	"IS": {}, "ISNULL": {}, "JOIN": {}, "LATERAL": {}, "LEADING": {},
	"LEFT": {}, "LIKE": {}, "LIMIT": {}, "LOCALTIME": {}, "LOCALTIMESTAMP": {},
	"NATURAL": {}, "NOT": {}, "NOTNULL": {}, "NULL": {}, "OFFSET": {},
	"ON": {}, "ONLY": {}, "OR": {}, "ORDER": {}, "OUTER": {}, "OVERLAPS": {},
	"PLACING": {}, "PRIMARY": {}, "REFERENCES": {}, "RETURNING": {},
	"RIGHT": {}, "SELECT": {}, "SESSION_USER": {}, "SIMILAR": {}, "SOME": {},
	"SYMMETRIC": {}, "TABLE": {}, "THEN": {}, "TO": {}, "TRAILING": {},
	"TRUE": {}, "UNION": {}, "UNIQUE": {}, "UPDATE": {}, "USER": {},
	"USING": {}, "VALUES": {}, "VARIADIC": {}, "VERBOSE": {}, "WHEN": {},
	"WHERE": {}, "WINDOW": {}, "WITH": {},
}

// IsReservedWord reports whether word is a reserved SQL keyword.
// The check is case-insensitive.
func IsReservedWord(word string) bool {
	_, ok := reservedWords[strings.ToUpper(word)]
	return ok
}
