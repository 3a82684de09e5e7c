// internal/adapter/storage/status_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedscope/internal/domain/status"
	"fedscope/internal/llm"
)

// StatusStore implements storage for raw captures, filtered statuses and
// statuses flagged for AI classification
type StatusStore struct {
	db *pgxpool.Pool
}

// NewStatusStore creates a new status store
func NewStatusStore(db *pgxpool.Pool) *StatusStore {
	return &StatusStore{
		db: db,
	}
}

// SaveRaw captures a status unconditionally, before any filtering. Duplicate
// deliveries of the same id are silently ignored.
func (s *StatusStore) SaveRaw(ctx context.Context, st status.Status) error {
	query := `
		INSERT INTO raw_statuses (
			id, created_at, language, uri, url, content, visibility,
			sensitive, spoiler_text, in_reply_to_id, replies_count,
			reblogs_count, favourites_count, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.Exec(
		ctx,
		query,
		st.ID,
		st.CreatedAt,
		st.Language,
		st.URI,
		st.URL,
		st.Content,
		st.Visibility,
		st.Sensitive,
		st.SpoilerText,
		st.InReplyToID,
		st.RepliesCount,
		st.ReblogsCount,
		st.FavouritesCount,
		st.TagNames(),
	)
	if err != nil {
		return fmt.Errorf("error saving raw status: %w", err)
	}

	return nil
}

// SaveFiltered stores the processed status with tags reduced to plain names.
func (s *StatusStore) SaveFiltered(ctx context.Context, st status.Status) error {
	query := `
		INSERT INTO statuses (
			id, created_at, language, uri, url, content, visibility,
			sensitive, spoiler_text, in_reply_to_id, replies_count,
			reblogs_count, favourites_count, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.Exec(
		ctx,
		query,
		st.ID,
		st.CreatedAt,
		st.Language,
		st.URI,
		st.URL,
		st.Content,
		st.Visibility,
		st.Sensitive,
		st.SpoilerText,
		st.InReplyToID,
		st.RepliesCount,
		st.ReblogsCount,
		st.FavouritesCount,
		st.TagNames(),
	)
	if err != nil {
		return fmt.Errorf("error saving status: %w", err)
	}

	return nil
}

// FindByTag returns every stored filtered status carrying the tag.
func (s *StatusStore) FindByTag(ctx context.Context, tag string) ([]status.Status, error) {
	query := `
		SELECT id, created_at, language, url, content
		FROM statuses
		WHERE $1 = ANY(tags)
	`

	rows, err := s.db.Query(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("error querying statuses by tag: %w", err)
	}
	defer rows.Close()

	var statuses []status.Status
	for rows.Next() {
		var st status.Status
		if err := rows.Scan(&st.ID, &st.CreatedAt, &st.Language, &st.URL, &st.Content); err != nil {
			return nil, fmt.Errorf("error scanning status: %w", err)
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}

	return statuses, nil
}

// SaveToCheck persists a flagged status snapshot. A snapshot already stored
// under the same id is left untouched.
func (s *StatusStore) SaveToCheck(ctx context.Context, tc status.ToCheck) error {
	query := `
		INSERT INTO statuses_to_check (
			id, created_at, language, url, content,
			author_followers_count, author_following_count,
			author_statuses_count, author_created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.Exec(
		ctx,
		query,
		tc.ID,
		tc.CreatedAt,
		tc.Language,
		tc.URL,
		tc.Content,
		tc.AuthorFollowersCount,
		tc.AuthorFollowingCount,
		tc.AuthorStatusesCount,
		tc.AuthorCreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving status to check: %w", err)
	}

	return nil
}

const toCheckColumns = `
	id, created_at, language, url, content,
	author_followers_count, author_following_count,
	author_statuses_count, author_created_at,
	openai_response, openai_confidence, openai_is_suspicious,
	claude_response, claude_confidence, claude_is_suspicious,
	gemini_response, gemini_confidence, gemini_is_suspicious,
	llama_response, llama_confidence, llama_is_suspicious,
	checked_at
`

func scanToCheck(row pgx.Row) (*status.ToCheck, error) {
	var tc status.ToCheck
	var checkedAt *time.Time

	err := row.Scan(
		&tc.ID,
		&tc.CreatedAt,
		&tc.Language,
		&tc.URL,
		&tc.Content,
		&tc.AuthorFollowersCount,
		&tc.AuthorFollowingCount,
		&tc.AuthorStatusesCount,
		&tc.AuthorCreatedAt,
		&tc.OpenAI.Response,
		&tc.OpenAI.Confidence,
		&tc.OpenAI.IsSuspicious,
		&tc.Claude.Response,
		&tc.Claude.Confidence,
		&tc.Claude.IsSuspicious,
		&tc.Gemini.Response,
		&tc.Gemini.Confidence,
		&tc.Gemini.IsSuspicious,
		&tc.Llama.Response,
		&tc.Llama.Confidence,
		&tc.Llama.IsSuspicious,
		&checkedAt,
	)
	if err != nil {
		return nil, err
	}

	tc.OpenAI.CheckedAt = checkedAt
	tc.Claude.CheckedAt = checkedAt
	tc.Gemini.CheckedAt = checkedAt
	tc.Llama.CheckedAt = checkedAt

	return &tc, nil
}

// GetToCheck fetches a flagged status by id. Returns ErrNotFound when the id
// was never flagged.
func (s *StatusStore) GetToCheck(ctx context.Context, id string) (*status.ToCheck, error) {
	query := `SELECT ` + toCheckColumns + ` FROM statuses_to_check WHERE id = $1`

	tc, err := scanToCheck(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("status to check %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying status to check: %w", err)
	}

	return tc, nil
}

// ListToCheck returns one page of flagged statuses, newest first, plus the
// total count.
func (s *StatusStore) ListToCheck(ctx context.Context, page, limit int) ([]status.ToCheck, int, error) {
	query := `
		SELECT ` + toCheckColumns + `
		FROM statuses_to_check
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying statuses to check: %w", err)
	}
	defer rows.Close()

	var statuses []status.ToCheck
	for rows.Next() {
		tc, err := scanToCheck(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning status to check: %w", err)
		}
		statuses = append(statuses, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating statuses to check: %w", err)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM statuses_to_check`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting statuses to check: %w", err)
	}

	return statuses, total, nil
}

// SaveVerdict stores one provider's classification result against the flagged
// status. Re-running a provider overwrites its previous verdict.
func (s *StatusStore) SaveVerdict(
	ctx context.Context,
	id string,
	provider llm.Provider,
	response string,
	confidence float64,
	isSuspicious bool,
) error {
	var prefix string
	switch provider {
	case llm.ProviderOpenAI:
		prefix = "openai"
	case llm.ProviderClaude:
		prefix = "claude"
	case llm.ProviderGemini:
		prefix = "gemini"
	case llm.ProviderLlama:
		prefix = "llama"
	default:
		return fmt.Errorf("%w: %q", llm.ErrUnknownProvider, provider)
	}

	// prefix comes from the closed enum above, never from user input.
	query := fmt.Sprintf(`
		UPDATE statuses_to_check
		SET %s_response = $2, %s_confidence = $3, %s_is_suspicious = $4, checked_at = $5
		WHERE id = $1
	`, prefix, prefix, prefix)

	_, err := s.db.Exec(ctx, query, id, response, confidence, isSuspicious, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving %s verdict: %w", prefix, err)
	}

	return nil
}
