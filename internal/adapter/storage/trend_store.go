// internal/adapter/storage/trend_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedscope/internal/domain/trend"
)

// TrendStore implements storage for popular and suspicious trends
type TrendStore struct {
	db *pgxpool.Pool
}

// NewTrendStore creates a new trend store
func NewTrendStore(db *pgxpool.Pool) *TrendStore {
	return &TrendStore{
		db: db,
	}
}

// IsPopular reports whether the tag exists in the current popular snapshot.
func (s *TrendStore) IsPopular(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM trends WHERE name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking popular trend: %w", err)
	}

	return exists, nil
}

// FindSuspicious looks up a suspicious trend by tag name. Returns nil without
// error when the tag has never been flagged.
func (s *TrendStore) FindSuspicious(ctx context.Context, name string) (*trend.Suspicious, error) {
	query := `
		SELECT id, name, url, uses_in_last_seven_days, number_of_accounts,
			instance_url, number_of_similar_statuses
		FROM suspicious_trends
		WHERE name = $1
	`

	var t trend.Suspicious
	err := s.db.QueryRow(ctx, query, name).Scan(
		&t.ID,
		&t.Name,
		&t.URL,
		&t.UsesInLastSevenDays,
		&t.NumberOfAccounts,
		&t.InstanceURL,
		&t.NumberOfSimilarStatuses,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying suspicious trend: %w", err)
	}

	return &t, nil
}

// UpsertSuspicious creates a suspicious trend keyed by url, or on conflict
// overwrites the usage and account counts only. The resulting row is returned
// so callers hold a durable id even on first creation.
func (s *TrendStore) UpsertSuspicious(ctx context.Context, t trend.Suspicious) (*trend.Suspicious, error) {
	query := `
		INSERT INTO suspicious_trends (
			name, url, uses_in_last_seven_days, number_of_accounts, instance_url
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO UPDATE
		SET
			uses_in_last_seven_days = $3,
			number_of_accounts = $4
		RETURNING id, name, url, uses_in_last_seven_days, number_of_accounts,
			instance_url, number_of_similar_statuses
	`

	var out trend.Suspicious
	err := s.db.QueryRow(
		ctx,
		query,
		t.Name,
		t.URL,
		t.UsesInLastSevenDays,
		t.NumberOfAccounts,
		t.InstanceURL,
	).Scan(
		&out.ID,
		&out.Name,
		&out.URL,
		&out.UsesInLastSevenDays,
		&out.NumberOfAccounts,
		&out.InstanceURL,
		&out.NumberOfSimilarStatuses,
	)
	if err != nil {
		return nil, fmt.Errorf("error upserting suspicious trend: %w", err)
	}

	return &out, nil
}

// SetSimilarStatusCount sets the similar-status counter to the supplied
// value. Callers compute the increment themselves; concurrent writers can
// race and lose an update, which is accepted best-effort behavior.
func (s *TrendStore) SetSimilarStatusCount(ctx context.Context, id int64, count int) error {
	_, err := s.db.Exec(
		ctx,
		`UPDATE suspicious_trends SET number_of_similar_statuses = $2 WHERE id = $1`,
		id,
		count,
	)
	if err != nil {
		return fmt.Errorf("error updating similar status count: %w", err)
	}

	return nil
}

// ReplacePopular replaces the whole popular-trend snapshot in one
// transaction: delete everything, then bulk insert the fresh rows.
func (s *TrendStore) ReplacePopular(ctx context.Context, trends []trend.Trend) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trends`); err != nil {
		return fmt.Errorf("error clearing trends: %w", err)
	}

	for _, t := range trends {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO trends (name, url, uses_in_last_seven_days) VALUES ($1, $2, $3)`,
			t.Name,
			t.URL,
			t.UsesInLastSevenDays,
		)
		if err != nil {
			return fmt.Errorf("error inserting trend %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing trend snapshot: %w", err)
	}

	return nil
}

// ListPopular returns one page of the popular snapshot plus the total count.
func (s *TrendStore) ListPopular(ctx context.Context, page, limit int) ([]trend.Trend, int, error) {
	query := `
		SELECT id, name, url, uses_in_last_seven_days
		FROM trends
		ORDER BY uses_in_last_seven_days DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying trends: %w", err)
	}
	defer rows.Close()

	var trends []trend.Trend
	for rows.Next() {
		var t trend.Trend
		if err := rows.Scan(&t.ID, &t.Name, &t.URL, &t.UsesInLastSevenDays); err != nil {
			return nil, 0, fmt.Errorf("error scanning trend: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating trends: %w", err)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM trends`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting trends: %w", err)
	}

	return trends, total, nil
}

// ListSuspicious returns one page of suspicious trends, optionally filtered
// by originating instance url, plus the total count.
func (s *TrendStore) ListSuspicious(ctx context.Context, instanceURL string, page, limit int) ([]trend.Suspicious, int, error) {
	query := `
		SELECT id, name, url, uses_in_last_seven_days, number_of_accounts,
			instance_url, number_of_similar_statuses
		FROM suspicious_trends
		WHERE ($1 = '' OR instance_url = $1)
		ORDER BY id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := s.db.Query(ctx, query, instanceURL, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying suspicious trends: %w", err)
	}
	defer rows.Close()

	var trends []trend.Suspicious
	for rows.Next() {
		var t trend.Suspicious
		err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.URL,
			&t.UsesInLastSevenDays,
			&t.NumberOfAccounts,
			&t.InstanceURL,
			&t.NumberOfSimilarStatuses,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning suspicious trend: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating suspicious trends: %w", err)
	}

	var total int
	err = s.db.QueryRow(
		ctx,
		`SELECT count(*) FROM suspicious_trends WHERE ($1 = '' OR instance_url = $1)`,
		instanceURL,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting suspicious trends: %w", err)
	}

	return trends, total, nil
}
