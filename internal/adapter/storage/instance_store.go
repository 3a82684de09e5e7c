// internal/adapter/storage/instance_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"fedscope/internal/domain/instance"
)

// InstanceStore implements storage for the known-instances directory
type InstanceStore struct {
	db *pgxpool.Pool
}

// NewInstanceStore creates a new instance store
func NewInstanceStore(db *pgxpool.Pool) *InstanceStore {
	return &InstanceStore{
		db: db,
	}
}

// ReplaceAll swaps the whole directory for a fresh catalog snapshot in one
// transaction.
func (s *InstanceStore) ReplaceAll(ctx context.Context, instances []instance.Instance) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM instances`); err != nil {
		return fmt.Errorf("error clearing instances: %w", err)
	}

	query := `
		INSERT INTO instances (
			id, name, added_at, updated_at, checked_at, up, dead, version,
			users, statuses, active_users, open_registrations, thumbnail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, in := range instances {
		_, err := tx.Exec(
			ctx,
			query,
			in.ID,
			in.Name,
			in.AddedAt,
			in.UpdatedAt,
			in.CheckedAt,
			in.Up,
			in.Dead,
			in.Version,
			in.Users,
			in.Statuses,
			in.ActiveUsers,
			in.OpenRegistrations,
			in.Thumbnail,
		)
		if err != nil {
			return fmt.Errorf("error inserting instance %q: %w", in.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing instance snapshot: %w", err)
	}

	return nil
}

// List returns one page of the directory plus the total count.
func (s *InstanceStore) List(ctx context.Context, page, limit int) ([]instance.Instance, int, error) {
	query := `
		SELECT id, name, added_at, updated_at, checked_at, up, dead, version,
			users, statuses, active_users, open_registrations, thumbnail
		FROM instances
		ORDER BY active_users DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying instances: %w", err)
	}
	defer rows.Close()

	var instances []instance.Instance
	for rows.Next() {
		var in instance.Instance
		err := rows.Scan(
			&in.ID,
			&in.Name,
			&in.AddedAt,
			&in.UpdatedAt,
			&in.CheckedAt,
			&in.Up,
			&in.Dead,
			&in.Version,
			&in.Users,
			&in.Statuses,
			&in.ActiveUsers,
			&in.OpenRegistrations,
			&in.Thumbnail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning instance: %w", err)
		}
		instances = append(instances, in)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating instances: %w", err)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM instances`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting instances: %w", err)
	}

	return instances, total, nil
}
