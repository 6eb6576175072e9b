// Package options serves the remote-sourced dropdown values (customers,
// products, static lookups) used by autocomplete and select fields. Option
// sourcing is independent of the field governance rules.
package options

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option is one selectable value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Repository reads option values from the system of record.
type Repository interface {
	CustomerOptions(ctx context.Context) ([]Option, error)
	ProductOptions(ctx context.Context) ([]Option, error)
	StaticOptions(ctx context.Context) (map[string][]Option, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed option repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CustomerOptions(ctx context.Context) ([]Option, error) {
	return r.listOptions(ctx, `SELECT code, name FROM customers WHERE is_active ORDER BY name`)
}

func (r *repository) ProductOptions(ctx context.Context) ([]Option, error) {
	return r.listOptions(ctx, `SELECT item_code, name FROM products WHERE is_active ORDER BY name`)
}

func (r *repository) StaticOptions(ctx context.Context) (map[string][]Option, error) {
	rows, err := r.pool.Query(ctx, `
SELECT field_name, value, label FROM field_options
WHERE is_active ORDER BY field_name, sort_order, label`)
	if err != nil {
		return nil, fmt.Errorf("options: static: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]Option)
	for rows.Next() {
		var field string
		var opt Option
		if err := rows.Scan(&field, &opt.Value, &opt.Label); err != nil {
			return nil, err
		}
		out[field] = append(out[field], opt)
	}
	return out, rows.Err()
}

func (r *repository) listOptions(ctx context.Context, query string) ([]Option, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("options: query: %w", err)
	}
	defer rows.Close()

	var out []Option
	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.Value, &opt.Label); err != nil {
			return nil, err
		}
		out = append(out, opt)
	}
	return out, rows.Err()
}
