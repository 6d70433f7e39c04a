package dbrepository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
)

func TestChangesetUpdateQuery(t *testing.T) {
	cs := newChangeset("products", []string{"name", "stock"})
	require.NoError(t, cs.set("name", "Matte White"))
	require.NoError(t, cs.set("stock", "Out of Stock"))

	query, args := cs.updateQuery(7, true)
	assert.Equal(t,
		"UPDATE products SET name = $1, stock = $2, updated_at = now() WHERE id = $3",
		query,
	)
	assert.Equal(t, []any{"Matte White", "Out of Stock", 7}, args)
}

func TestChangesetWithoutUpdatedAt(t *testing.T) {
	cs := newChangeset("contact_submissions", []string{"read_status"})
	require.NoError(t, cs.set("read_status", true))

	query, args := cs.updateQuery(3, false)
	assert.Equal(t, "UPDATE contact_submissions SET read_status = $1 WHERE id = $2", query)
	assert.Equal(t, []any{true, 3}, args)
}

func TestChangesetRejectsUnknownColumn(t *testing.T) {
	cs := newChangeset("products", []string{"name"})
	err := cs.set("password_hash; DROP TABLE products", "x")
	assert.ErrorIs(t, err, data.ErrUnknownColumn)
	assert.True(t, cs.empty())
}
