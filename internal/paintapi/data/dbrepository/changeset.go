package dbrepository

import (
	"fmt"
	"strings"

	"paint-backend/internal/paintapi/data"
)

// changeset accumulates column assignments for an UPDATE, rejecting any
// column outside the table's whitelist. It replaces building SQL from
// whatever fields a request happened to carry.
type changeset struct {
	table     string
	whitelist map[string]struct{}
	columns   []string
	values    []any
}

func newChangeset(table string, allowedColumns []string) *changeset {
	whitelist := make(map[string]struct{}, len(allowedColumns))
	for _, column := range allowedColumns {
		whitelist[column] = struct{}{}
	}
	return &changeset{
		table:     table,
		whitelist: whitelist,
	}
}

func (cs *changeset) set(column string, value any) error {
	if _, ok := cs.whitelist[column]; !ok {
		return fmt.Errorf("%w: %q", data.ErrUnknownColumn, column)
	}
	cs.columns = append(cs.columns, column)
	cs.values = append(cs.values, value)
	return nil
}

func (cs *changeset) empty() bool {
	return len(cs.columns) == 0
}

// updateQuery renders "UPDATE <table> SET c1 = $1, ... WHERE id = $N"
// and the matching argument slice, id last. touchUpdatedAt appends an
// updated_at = now() assignment for tables that track it.
func (cs *changeset) updateQuery(id any, touchUpdatedAt bool) (string, []any) {
	assignments := make([]string, 0, len(cs.columns)+1)
	for i, column := range cs.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
	}
	if touchUpdatedAt {
		assignments = append(assignments, "updated_at = now()")
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		cs.table,
		strings.Join(assignments, ", "),
		len(cs.columns)+1,
	)
	args := make([]any, 0, len(cs.values)+1)
	args = append(args, cs.values...)
	args = append(args, id)
	return query, args
}
