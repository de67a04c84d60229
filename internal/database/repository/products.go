package repository

import (
	"context"
	"database/sql"

	"github.com/ceica/ceicacake/internal/database"
)

// ProductCacheRepo handles the local product reference cache.
type ProductCacheRepo struct {
	db *sql.DB
}

func NewProductCacheRepo(db *sql.DB) *ProductCacheRepo {
	return &ProductCacheRepo{db: db}
}

func (r *ProductCacheRepo) ReplaceAll(ctx context.Context, products []CachedProduct) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products_cache`); err != nil {
			return err
		}
		for _, p := range products {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO products_cache(value, label, synced_at)
			VALUES (?, ?, CURRENT_TIMESTAMP);
			`, p.Value, p.Label); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProductCacheRepo) List(ctx context.Context) ([]CachedProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT value, label, synced_at FROM products_cache ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CachedProduct
	for rows.Next() {
		var p CachedProduct
		if err := rows.Scan(&p.Value, &p.Label, &p.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
