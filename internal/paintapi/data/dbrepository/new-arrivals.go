package dbrepository

import (
	"context"

	"paint-backend/internal/paintapi/data"
)

const newArrivalColumns = "id, name, description, release_date, image_url, created_at, updated_at"

func scanNewArrival(row interface{ Scan(dest ...any) error }) (data.NewArrival, error) {
	var a data.NewArrival
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.ReleaseDate, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return data.NewArrival{}, err //nolint:wrapcheck // mapped by the caller
	}
	return a, nil
}

func (db *DBRepository) InsertNewArrival(ctx context.Context, arrival *data.NewArrival) (int, error) {
	var id int
	err := db.storage.QueryValue(
		ctx,
		`INSERT INTO new_arrivals (name, description, release_date, image_url)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		[]any{arrival.Name, arrival.Description, arrival.ReleaseDate, arrival.ImageURL},
		[]any{&id},
	)
	if err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

func (db *DBRepository) GetNewArrival(ctx context.Context, id int) (data.NewArrival, error) {
	row, err := db.storage.QueryRow(
		ctx,
		"SELECT "+newArrivalColumns+" FROM new_arrivals WHERE id = $1",
		id,
	)
	if err != nil {
		return data.NewArrival{}, handleSQLError(err)
	}
	arrival, err := scanNewArrival(row)
	if err != nil {
		return data.NewArrival{}, handleSQLError(err)
	}
	return arrival, nil
}

func (db *DBRepository) GetNewArrivals(ctx context.Context, skip, limit int) ([]data.NewArrival, error) {
	rows, err := db.storage.Query(
		ctx,
		"SELECT "+newArrivalColumns+" FROM new_arrivals ORDER BY release_date DESC LIMIT $1 OFFSET $2",
		limit, skip,
	)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.NewArrival, 0)
	for rows.Next() {
		arrival, err := scanNewArrival(rows)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, arrival)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func (db *DBRepository) UpdateNewArrival(ctx context.Context, id int, changes data.NewArrivalChanges) error {
	cs := newChangeset("new_arrivals", []string{"name", "description", "release_date", "image_url"})
	if err := applyStringChange(cs, "name", changes.Name); err != nil {
		return err
	}
	if err := applyStringChange(cs, "description", changes.Description); err != nil {
		return err
	}
	if changes.ReleaseDate != nil {
		if err := cs.set("release_date", *changes.ReleaseDate); err != nil {
			return err
		}
	}
	if changes.ImageURL != nil {
		if err := cs.set("image_url", *changes.ImageURL); err != nil {
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

func (db *DBRepository) DeleteNewArrival(ctx context.Context, id int) error {
	tag, err := db.storage.Exec(ctx, "DELETE FROM new_arrivals WHERE id = $1", id)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}
