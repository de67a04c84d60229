package repository

import (
	"context"
	"database/sql"
)

// PresetRepo handles saved cash-flow filter presets.
type PresetRepo struct {
	db *sql.DB
}

func NewPresetRepo(db *sql.DB) *PresetRepo {
	return &PresetRepo{db: db}
}

func (r *PresetRepo) Upsert(ctx context.Context, p FilterPreset) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO filter_presets(id, name, start_date, end_date, value_type, category, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 start_date=excluded.start_date,
	 end_date=excluded.end_date,
	 value_type=excluded.value_type,
	 category=excluded.category;
	`, p.ID, p.Name, p.StartDate, p.EndDate, p.ValueType, p.Category)
	return err
}

func (r *PresetRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM filter_presets WHERE id = ?`, id)
	return err
}

func (r *PresetRepo) List(ctx context.Context) ([]FilterPreset, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, start_date, end_date, value_type, category, created_at
	FROM filter_presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FilterPreset
	for rows.Next() {
		var p FilterPreset
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.ValueType, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
