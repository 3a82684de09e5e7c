// internal/adapter/storage/account_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"fedscope/internal/domain/status"
)

// AccountStore implements storage for observed author accounts
type AccountStore struct {
	db *pgxpool.Pool
}

// NewAccountStore creates a new account store
func NewAccountStore(db *pgxpool.Pool) *AccountStore {
	return &AccountStore{
		db: db,
	}
}

// Upsert stores an account keyed by its unique handle, overwriting the
// mutable counters on every observation of the same handle.
func (s *AccountStore) Upsert(ctx context.Context, a status.Account) error {
	query := `
		INSERT INTO accounts (
			id, username, acct, display_name, note, url, avatar, bot, locked,
			created_at, followers_count, following_count, statuses_count,
			last_status_at, instance_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (acct) DO UPDATE
		SET
			display_name = $4,
			note = $5,
			url = $6,
			avatar = $7,
			bot = $8,
			locked = $9,
			followers_count = $11,
			following_count = $12,
			statuses_count = $13,
			last_status_at = $14,
			instance_url = $15
	`

	_, err := s.db.Exec(
		ctx,
		query,
		a.ID,
		a.Username,
		a.Acct,
		a.DisplayName,
		a.Note,
		a.URL,
		a.Avatar,
		a.Bot,
		a.Locked,
		a.CreatedAt,
		a.FollowersCount,
		a.FollowingCount,
		a.StatusesCount,
		a.LastStatusAt,
		a.InstanceURL,
	)
	if err != nil {
		return fmt.Errorf("error upserting account: %w", err)
	}

	return nil
}

// List returns one page of observed accounts plus the total count.
func (s *AccountStore) List(ctx context.Context, page, limit int) ([]status.Account, int, error) {
	query := `
		SELECT id, username, acct, display_name, note, url, avatar, bot,
			locked, created_at, followers_count, following_count,
			statuses_count, last_status_at, instance_url
		FROM accounts
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []status.Account
	for rows.Next() {
		var a status.Account
		err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.Acct,
			&a.DisplayName,
			&a.Note,
			&a.URL,
			&a.Avatar,
			&a.Bot,
			&a.Locked,
			&a.CreatedAt,
			&a.FollowersCount,
			&a.FollowingCount,
			&a.StatusesCount,
			&a.LastStatusAt,
			&a.InstanceURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating accounts: %w", err)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting accounts: %w", err)
	}

	return accounts, total, nil
}
