package pgfrag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisprojects/pgfrag"
)

func TestCheckExpressionAccepts(t *testing.T) {
	for _, expr := range []string{
		"COUNT(*)",
		"SUM(amount)",
		"AVG(price) OVER (PARTITION BY region)",
		"COALESCE(total, 0)",
		"MAX(updated_at)",
		"COUNT(DISTINCT user_id)",
	} {
		t.Run(expr, func(t *testing.T) {
			assert.NoError(t, pgfrag.CheckExpression(expr, "aggregate"))
		})
	}
}

func TestCheckExpressionRejects(t *testing.T) {
	cases := []struct {
		expr   string
		reason string
	}{
		{"COUNT(*); DROP TABLE users", "semicolons"},
		{"SUM(x) -- sneak", "SQL comments"},
		{"SUM(x) /* sneak */", "multi-line comments"},
		{"close*/", "multi-line comments"},
		{"DROP TABLE users", "DDL/DML"},
		{"delete FROM t", "DDL/DML"},
		{"1 UNION SELECT password FROM users", "UNION"},
		{`bad \escape`, "escape"},
		{`trailing\`, "escape"},
		{"'' OR ''", "quote"},
		{"x = '' AND y", "quote"},
		{"name';", "semicolons"},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			err := pgfrag.CheckExpression(c.expr, "aggregate")
			require.ErrorIs(t, err, pgfrag.ErrUnsafeExpression)
			assert.Contains(t, err.Error(), c.reason)
			assert.Contains(t, err.Error(), "aggregate")
		})
	}
}

func TestCheckExpressionEscapes(t *testing.T) {
	// Recognized escapes pass; an escaped pair is consumed as a unit.
	assert.NoError(t, pgfrag.CheckExpression(`regexp_replace(a, '\\n', '')`, "window"))
	assert.NoError(t, pgfrag.CheckExpression(`a \' b`, "window"))
	assert.Error(t, pgfrag.CheckExpression(`a \x b`, "window"))
}

func TestCheckExpressionKeywordSubstrings(t *testing.T) {
	// The denylist matches whole words only: identifiers merely containing
	// a keyword are fine.
	assert.NoError(t, pgfrag.CheckExpression("SUM(dropbox_count)", "aggregate"))
	assert.NoError(t, pgfrag.CheckExpression("updated_at", "aggregate"))
	assert.NoError(t, pgfrag.CheckExpression("reunion_size", "aggregate"))
}
