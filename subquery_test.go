package pgfrag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisprojects/pgfrag"
)

func TestInSubquery(t *testing.T) {
	f, err := pgfrag.InSubquery("user_id", "SELECT id FROM admins WHERE dept = $1", "IT")
	require.NoError(t, err)
	assert.Equal(t, "user_id IN (SELECT id FROM admins WHERE dept = $1)", f.Text)
	assert.Equal(t, []interface{}{"IT"}, f.Args)
}

func TestNotInSubquery(t *testing.T) {
	f, err := pgfrag.NotInSubquery("id", "SELECT user_id FROM banned")
	require.NoError(t, err)
	assert.Equal(t, "id NOT IN (SELECT user_id FROM banned)", f.Text)
	assert.Empty(t, f.Args)
}

func TestInSubqueryColumnSanitized(t *testing.T) {
	// Reserved words used as columns get quoted.
	f, err := pgfrag.InSubquery("user", "SELECT id FROM admins")
	require.NoError(t, err)
	assert.Equal(t, `"user" IN (SELECT id FROM admins)`, f.Text)

	_, err = pgfrag.InSubquery("user_id; --", "SELECT id FROM admins")
	assert.ErrorIs(t, err, pgfrag.ErrInvalidIdentifier)
}

func TestInSubqueryRejectsNonSelect(t *testing.T) {
	_, err := pgfrag.InSubquery("user_id", "DELETE FROM x")
	assert.ErrorIs(t, err, pgfrag.ErrInvalidSubquery)

	_, err = pgfrag.InSubquery("user_id", "")
	assert.ErrorIs(t, err, pgfrag.ErrInvalidSubquery)
}

func TestInSubqueryRejectsStackedQueries(t *testing.T) {
	_, err := pgfrag.InSubquery("user_id", "SELECT id FROM x; DROP TABLE x")
	assert.ErrorIs(t, err, pgfrag.ErrInvalidSubquery)
}

func TestInSubqueryRejectsOversized(t *testing.T) {
	huge := "SELECT " + strings.Repeat("x", pgfrag.MaxSubqueryLen)
	_, err := pgfrag.InSubquery("user_id", huge)
	assert.ErrorIs(t, err, pgfrag.ErrInvalidSubquery)
}

func TestSubqueryAcceptsWith(t *testing.T) {
	f, err := pgfrag.ExistsSubquery("WITH recent AS (SELECT id FROM events) SELECT 1 FROM recent")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Text, "EXISTS (WITH recent"))
}

func TestExistsSubquery(t *testing.T) {
	f, err := pgfrag.ExistsSubquery("SELECT 1 FROM orders WHERE orders.user_id = users.id AND total > $1", 100)
	require.NoError(t, err)
	assert.Equal(t, "EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id AND total > $1)", f.Text)
	assert.Equal(t, []interface{}{100}, f.Args)

	f, err = pgfrag.NotExistsSubquery("SELECT 1 FROM blocks WHERE target = $1", 7)
	require.NoError(t, err)
	assert.Equal(t, "NOT EXISTS (SELECT 1 FROM blocks WHERE target = $1)", f.Text)
}

func TestCompareSubquery(t *testing.T) {
	f, err := pgfrag.CompareSubquery("total", ">=", "SELECT AVG(total) FROM orders")
	require.NoError(t, err)
	assert.Equal(t, "total >= (SELECT AVG(total) FROM orders)", f.Text)

	// Operators are normalized case-insensitively.
	f, err = pgfrag.CompareSubquery("name", "like", "SELECT pattern FROM filters WHERE id = $1", 3)
	require.NoError(t, err)
	assert.Equal(t, "name LIKE (SELECT pattern FROM filters WHERE id = $1)", f.Text)
}

func TestCompareSubqueryRejectsUnknownOperator(t *testing.T) {
	for _, op := range []string{"=>", "<=>", "OR", "; DROP", ""} {
		_, err := pgfrag.CompareSubquery("total", op, "SELECT 1")
		assert.ErrorIs(t, err, pgfrag.ErrInvalidOperator, "operator %q", op)
	}
}

func TestAnyAllSubquery(t *testing.T) {
	f, err := pgfrag.AnySubquery("score", ">", "SELECT score FROM thresholds WHERE kind = $1", "min")
	require.NoError(t, err)
	assert.Equal(t, "score > ANY (SELECT score FROM thresholds WHERE kind = $1)", f.Text)

	f, err = pgfrag.AllSubquery("score", "<=", "SELECT score FROM caps")
	require.NoError(t, err)
	assert.Equal(t, "score <= ALL (SELECT score FROM caps)", f.Text)
}
