package dbrepository

import (
	"context"
	"encoding/json"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

const popularProductColumns = "id, name, type, description, features, rating, image_url, created_at, updated_at"

func scanPopularProduct(row interface{ Scan(dest ...any) error }) (data.PopularProduct, error) {
	var p data.PopularProduct
	var featuresJSON []byte
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Description, &featuresJSON, &p.Rating, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return data.PopularProduct{}, err //nolint:wrapcheck // mapped by the caller
	}
	p.Features = make([]string, 0)
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return data.PopularProduct{}, fmt.Errorf("failed to decode features: %w", err)
		}
	}
	return p, nil
}

func (db *DBRepository) InsertPopularProduct(ctx context.Context, product *data.PopularProduct) (int, error) {
	featuresJSON, err := json.Marshal(product.Features)
	if err != nil {
		return 0, fmt.Errorf("failed to encode features: %w", err)
	}
	var id int
	err = db.storage.QueryValue(
		ctx,
		`INSERT INTO popular_products (name, type, description, features, rating, image_url)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6) RETURNING id`,
		[]any{product.Name, product.Type, product.Description, string(featuresJSON), product.Rating, product.ImageURL},
		[]any{&id},
	)
	if err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

func (db *DBRepository) GetPopularProduct(ctx context.Context, id int) (data.PopularProduct, error) {
	row, err := db.storage.QueryRow(
		ctx,
		fmt.Sprintf("SELECT %s FROM popular_products WHERE id = $1", popularProductColumns),
		id,
	)
	if err != nil {
		return data.PopularProduct{}, handleSQLError(err)
	}
	product, err := scanPopularProduct(row)
	if err != nil {
		return data.PopularProduct{}, handleSQLError(err)
	}
	return product, nil
}

func (db *DBRepository) GetPopularProducts(ctx context.Context, skip, limit int) ([]data.PopularProduct, error) {
	rows, err := db.storage.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM popular_products ORDER BY rating DESC, name LIMIT $1 OFFSET $2", popularProductColumns),
		limit, skip,
	)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.PopularProduct, 0)
	for rows.Next() {
		product, err := scanPopularProduct(rows)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func (db *DBRepository) UpdatePopularProduct(ctx context.Context, id int, changes data.PopularProductChanges) error {
	cs := newChangeset("popular_products", []string{"name", "type", "description", "features", "rating", "image_url"})
	if err := applyStringChange(cs, "name", changes.Name); err != nil {
		return err
	}
	if changes.Type != nil {
		if err := cs.set("type", *changes.Type); err != nil {
			return err
		}
	}
	if err := applyStringChange(cs, "description", changes.Description); err != nil {
		return err
	}
	if changes.Rating != nil {
		if err := cs.set("rating", *changes.Rating); err != nil {
			return err
		}
	}
	if changes.ImageURL != nil {
		if err := cs.set("image_url", *changes.ImageURL); err != nil {
			return err
		}
	}
	if changes.Features != nil {
		featuresJSON, err := json.Marshal(changes.Features)
		if err != nil {
			return fmt.Errorf("failed to encode features: %w", err)
		}
		if err := cs.set("features", string(featuresJSON)); err != nil {
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

func (db *DBRepository) DeletePopularProduct(ctx context.Context, id int) error {
	tag, err := db.storage.Exec(ctx, "DELETE FROM popular_products WHERE id = $1", id)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}
