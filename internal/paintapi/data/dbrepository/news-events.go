package dbrepository

import (
	"context"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

const newsEventColumns = "id, title, type, content, date, end_date, highlighted, created_at, updated_at"

func scanNewsEvent(row interface{ Scan(dest ...any) error }) (data.NewsEvent, error) {
	var e data.NewsEvent
	err := row.Scan(&e.ID, &e.Title, &e.Type, &e.Content, &e.Date, &e.EndDate, &e.Highlighted, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return data.NewsEvent{}, err //nolint:wrapcheck // mapped by the caller
	}
	return e, nil
}

func (db *DBRepository) InsertNewsEvent(ctx context.Context, event *data.NewsEvent) (int, error) {
	var id int
	err := db.storage.QueryValue(
		ctx,
		`INSERT INTO news_events (title, type, content, date, end_date, highlighted)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		[]any{event.Title, event.Type, event.Content, event.Date, event.EndDate, event.Highlighted},
		[]any{&id},
	)
	if err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

func (db *DBRepository) GetNewsEvent(ctx context.Context, id int) (data.NewsEvent, error) {
	row, err := db.storage.QueryRow(
		ctx,
		"SELECT "+newsEventColumns+" FROM news_events WHERE id = $1",
		id,
	)
	if err != nil {
		return data.NewsEvent{}, handleSQLError(err)
	}
	event, err := scanNewsEvent(row)
	if err != nil {
		return data.NewsEvent{}, handleSQLError(err)
	}
	return event, nil
}

func newsEventFilterClause(filter data.NewsEventFilter) (string, []any) {
	clause := ""
	args := make([]any, 0, 2)
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clause = fmt.Sprintf(" WHERE type = $%d", len(args))
	}
	if filter.Highlighted != nil {
		args = append(args, *filter.Highlighted)
		if clause == "" {
			clause = fmt.Sprintf(" WHERE highlighted = $%d", len(args))
		} else {
			clause += fmt.Sprintf(" AND highlighted = $%d", len(args))
		}
	}
	return clause, args
}

func (db *DBRepository) GetNewsEvents(ctx context.Context, filter data.NewsEventFilter) ([]data.NewsEvent, error) {
	clause, args := newsEventFilterClause(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM news_events%s ORDER BY date DESC LIMIT $%d OFFSET $%d",
		newsEventColumns, clause, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := db.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.NewsEvent, 0)
	for rows.Next() {
		event, err := scanNewsEvent(rows)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func (db *DBRepository) CountNewsEvents(ctx context.Context, filter data.NewsEventFilter) (int, error) {
	clause, args := newsEventFilterClause(filter)
	var total int
	err := db.storage.QueryValue(ctx, "SELECT count(*) FROM news_events"+clause, args, []any{&total})
	if err != nil {
		return 0, handleSQLError(err)
	}
	return total, nil
}

func (db *DBRepository) UpdateNewsEvent(ctx context.Context, id int, changes data.NewsEventChanges) error {
	cs := newChangeset("news_events", []string{"title", "type", "content", "date", "end_date", "highlighted"})
	if err := applyStringChange(cs, "title", changes.Title); err != nil {
		return err
	}
	if changes.Type != nil {
		if err := cs.set("type", *changes.Type); err != nil {
			return err
		}
	}
	if err := applyStringChange(cs, "content", changes.Content); err != nil {
		return err
	}
	if changes.Date != nil {
		if err := cs.set("date", *changes.Date); err != nil {
			return err
		}
	}
	if changes.EndDate != nil {
		if err := cs.set("end_date", *changes.EndDate); err != nil {
			return err
		}
	}
	if changes.Highlighted != nil {
		if err := cs.set("highlighted", *changes.Highlighted); err != nil {
			return err
		}
	}
	if cs.empty() {
		return nil
	}

	query, args := cs.updateQuery(id, true)
	tag, err := db.storage.Exec(ctx, query, args...)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (db *DBRepository) DeleteNewsEvent(ctx context.Context, id int) error {
	tag, err := db.storage.Exec(ctx, "DELETE FROM news_events WHERE id = $1", id)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}
