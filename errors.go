package pgfrag

import "errors"

// Validation failures raised by pgfrag. All of them are deterministic
// input-validation errors: they are returned before any text is handed
// downstream and retrying never helps. Use errors.Is to classify:
//
//	_, err := pgfrag.Ident(name)
//	if errors.Is(err, pgfrag.ErrInvalidIdentifier) {
//		// ...
//	}
var (
	// ErrInvalidIdentifier reports a name containing an injection-indicative
	// character sequence.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnsafeExpression reports a free-form expression rejected by the
	// expression denylist.
	ErrUnsafeExpression = errors.New("unsafe expression")

	// ErrInvalidSubquery reports subquery text that is empty, does not start
	// with SELECT or WITH, contains a statement separator, or is too long.
	ErrInvalidSubquery = errors.New("invalid subquery")

	// ErrInvalidOperator reports a comparison operator that is not on the
	// allow-list.
	ErrInvalidOperator = errors.New("invalid operator")
)
