package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riha-rota/riha-rota/pkg/db"
)

// GetStaff retrieves all staff records ordered by team and id
func (d *DB) GetStaff(ctx context.Context) ([]db.Staff, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, team, position, profession, years
		FROM staff
		ORDER BY team, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []db.Staff
	for rows.Next() {
		var s db.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Team, &s.Position, &s.Profession, &s.Years); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// UpsertStaff inserts staff records, overwriting existing records with the same id
func (d *DB) UpsertStaff(ctx context.Context, staff []db.Staff) error {
	if len(staff) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, s := range staff {
			batch.Queue(`
				INSERT INTO staff (id, name, team, position, profession, years)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					team = EXCLUDED.team,
					position = EXCLUDED.position,
					profession = EXCLUDED.profession,
					years = EXCLUDED.years
			`, s.ID, s.Name, s.Team, s.Position, s.Profession, s.Years)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to upsert staff: %w", err)
		}
		return nil
	})
}
