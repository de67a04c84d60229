package repository

import (
	"context"
	"database/sql"

	"github.com/ceica/ceicacake/internal/database"
)

// CustomerCacheRepo handles the local customer reference cache.
type CustomerCacheRepo struct {
	db *sql.DB
}

func NewCustomerCacheRepo(db *sql.DB) *CustomerCacheRepo {
	return &CustomerCacheRepo{db: db}
}

// ReplaceAll swaps the whole cache for a fresh server snapshot in one
// transaction, so a partial refresh can never leave a mixed cache behind.
func (r *CustomerCacheRepo) ReplaceAll(ctx context.Context, customers []CachedCustomer) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM customers_cache`); err != nil {
			return err
		}
		for _, c := range customers {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers_cache(id, name, phone_number, is_active, synced_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP);
			`, c.ID, c.Name, c.PhoneNumber, c.IsActive); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CustomerCacheRepo) List(ctx context.Context) ([]CachedCustomer, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, phone_number, is_active, synced_at
	FROM customers_cache ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CachedCustomer
	for rows.Next() {
		var c CachedCustomer
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.IsActive, &c.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
