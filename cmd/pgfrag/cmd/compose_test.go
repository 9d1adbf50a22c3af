package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeFilterAddsWhere(t *testing.T) {
	doc := &composeSpec{
		Query: "SELECT id FROM users",
		Filters: []filterSpec{
			{Column: "user_id", In: "SELECT id FROM admins WHERE dept = $1", Args: []interface{}{"IT"}},
		},
	}
	sql, args, err := compose(doc)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE user_id IN (SELECT id FROM admins WHERE dept = $1)", sql)
	assert.Equal(t, []interface{}{"IT"}, args)
}

func TestComposeFilterExtendsWhere(t *testing.T) {
	doc := &composeSpec{
		Query: "SELECT id FROM users WHERE status = $1",
		Args:  []interface{}{"active"},
		Filters: []filterSpec{
			{Column: "user_id", In: "SELECT id FROM admins WHERE dept = $1", Args: []interface{}{"IT"}},
			{Column: "id", NotIn: "SELECT user_id FROM banned"},
		},
	}
	sql, args, err := compose(doc)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id FROM users WHERE status = $1 AND user_id IN (SELECT id FROM admins WHERE dept = $2) AND id NOT IN (SELECT user_id FROM banned)",
		sql)
	assert.Equal(t, []interface{}{"active", "IT"}, args)
}

func TestComposeRejectsBadFilter(t *testing.T) {
	doc := &composeSpec{
		Query: "SELECT id FROM users",
		Filters: []filterSpec{
			{Column: "user_id", In: "DELETE FROM x"},
		},
	}
	_, _, err := compose(doc)
	assert.Error(t, err)
}
