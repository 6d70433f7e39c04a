package dbrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"paint-backend/internal/paintapi/data"
)

func priceColumn(size string) string {
	return "price" + size
}

func productUpdateWhitelist() []string {
	columns := []string{"name", "category", "description", "features", "stock", "image_url"}
	for _, size := range data.PriceSizes {
		columns = append(columns, priceColumn(size))
	}
	return columns
}

func productColumns() string {
	cols := "id, name, category, description, features, stock, image_url"
	for _, size := range data.PriceSizes {
		cols += ", " + priceColumn(size)
	}
	return cols + ", created_at, updated_at"
}

func scanProduct(row interface{ Scan(dest ...any) error }) (data.Product, error) {
	var p data.Product
	var featuresJSON []byte
	prices := make([]*decimal.Decimal, len(data.PriceSizes))

	dest := []any{&p.ID, &p.Name, &p.Category, &p.Description, &featuresJSON, &p.Stock, &p.ImageURL}
	for i := range prices {
		dest = append(dest, &prices[i])
	}
	dest = append(dest, &p.CreatedAt, &p.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return data.Product{}, err //nolint:wrapcheck // mapped by the caller
	}

	p.Features = make([]string, 0)
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return data.Product{}, fmt.Errorf("failed to decode product features: %w", err)
		}
	}
	p.Prices = make(map[string]decimal.Decimal)
	for i, size := range data.PriceSizes {
		if prices[i] != nil {
			p.Prices[size] = *prices[i]
		}
	}
	return p, nil
}

func (db *DBRepository) InsertProduct(ctx context.Context, product *data.Product) (int, error) {
	featuresJSON, err := json.Marshal(product.Features)
	if err != nil {
		return 0, fmt.Errorf("failed to encode product features: %w", err)
	}

	columns := "name, category, description, features, stock, image_url"
	args := []any{product.Name, product.Category, product.Description, string(featuresJSON), product.Stock, product.ImageURL}
	for _, size := range data.PriceSizes {
		columns += ", " + priceColumn(size)
		if price, ok := product.Prices[size]; ok {
			args = append(args, price)
		} else {
			args = append(args, nil)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO products (%s) VALUES ($1,$2,$3,$4::jsonb,%s) RETURNING id",
		columns,
		formatParams(5, len(args)-4),
	)
	var id int
	if err := db.storage.QueryValue(ctx, query, args, []any{&id}); err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

func (db *DBRepository) GetProduct(ctx context.Context, id int) (data.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns())
	row, err := db.storage.QueryRow(ctx, query, id)
	if err != nil {
		return data.Product{}, handleSQLError(err)
	}
	product, err := scanProduct(row)
	if err != nil {
		return data.Product{}, handleSQLError(err)
	}
	return product, nil
}

func productFilterClause(filter data.ProductFilter) (string, []any) {
	clause := ""
	args := make([]any, 0, 3)
	conditions := make([]string, 0, 2)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	for i, condition := range conditions {
		if i == 0 {
			clause = " WHERE " + condition
		} else {
			clause += " AND " + condition
		}
	}
	return clause, args
}

func (db *DBRepository) GetProducts(ctx context.Context, filter data.ProductFilter) ([]data.Product, error) {
	clause, args := productFilterClause(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM products%s ORDER BY category, name LIMIT $%d OFFSET $%d",
		productColumns(), clause, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := db.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return make([]data.Product, 0), nil
		default:
			return nil, handleSQLError(err)
		}
	}
	return result, nil
}

func (db *DBRepository) CountProducts(ctx context.Context, filter data.ProductFilter) (int, error) {
	clause, args := productFilterClause(filter)
	var total int
	err := db.storage.QueryValue(ctx, "SELECT count(*) FROM products"+clause, args, []any{&total})
	if err != nil {
		return 0, handleSQLError(err)
	}
	return total, nil
}

func (db *DBRepository) UpdateProduct(ctx context.Context, id int, changes data.ProductChanges) error {
	cs := newChangeset("products", productUpdateWhitelist())
	if err := applyStringChange(cs, "name", changes.Name); err != nil {
		return err
	}
	if err := applyStringChange(cs, "category", changes.Category); err != nil {
		return err
	}
	if err := applyStringChange(cs, "description", changes.Description); err != nil {
		return err
	}
	if err := applyStringChange(cs, "stock", changes.Stock); err != nil {
		return err
	}
	if changes.ImageURL != nil {
		if err := cs.set("image_url", *changes.ImageURL); err != nil {
			return err
		}
	}
	if changes.Features != nil {
		featuresJSON, err := json.Marshal(changes.Features)
		if err != nil {
			return fmt.Errorf("failed to encode product features: %w", err)
		}
		if err := cs.set("features", string(featuresJSON)); err != nil {
			return err
		}
	}
	for size, price := range changes.Prices {
		if err := cs.set(priceColumn(size), price); err != nil {
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

func (db *DBRepository) DeleteProduct(ctx context.Context, id int) error {
	tag, err := db.storage.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

func applyStringChange(cs *changeset, column string, value *string) error {
	if value == nil {
		return nil
	}
	return cs.set(column, *value)
}
