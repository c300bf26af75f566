package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"codebin/pkg/models"
)

// SnippetRepository handles snippet data persistence. It is the concrete
// content visibility store: the access policy decides on the owner_id and
// is_public columns this repository returns.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *models.Snippet) error
	GetByID(ctx context.Context, id string) (*models.Snippet, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Snippet, int, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Snippet, int, error)
	Update(ctx context.Context, snippet *models.Snippet) error
	Delete(ctx context.Context, id string) error
}

type snippetRepository struct {
	pool *pgxpool.Pool
}

// NewSnippetRepository creates a new PostgreSQL snippet repository
func NewSnippetRepository(pool *pgxpool.Pool) SnippetRepository {
	return &snippetRepository{pool: pool}
}

const snippetColumns = `id, owner_id, title, language, code, is_public, created_at, updated_at`

func scanSnippet(row pgx.Row) (*models.Snippet, error) {
	s := &models.Snippet{}
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Title,
		&s.Language,
		&s.Code,
		&s.IsPublic,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new snippet
func (r *snippetRepository) Create(ctx context.Context, snippet *models.Snippet) error {
	if snippet.ID == "" {
		snippet.ID = fallbackID("snip")
	}

	query := `
		INSERT INTO snippets (id, owner_id, title, language, code, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, CURRENT_TIMESTAMP), COALESCE($7, CURRENT_TIMESTAMP))
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		snippet.ID,
		snippet.OwnerID,
		snippet.Title,
		snippet.Language,
		snippet.Code,
		snippet.IsPublic,
		snippet.CreatedAt,
	).Scan(&snippet.CreatedAt, &snippet.UpdatedAt)

	if err != nil {
		return mapSnippetError(err, "create_snippet")
	}
	return nil
}

// GetByID retrieves a snippet by ID
func (r *snippetRepository) GetByID(ctx context.Context, id string) (*models.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets WHERE id = $1`

	snippet, err := scanSnippet(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapSnippetError(err, "get_snippet")
	}
	return snippet, nil
}

// ListPublic retrieves public snippets, newest first
func (r *snippetRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Snippet, int, error) {
	return r.list(ctx, `is_public = TRUE`, nil, limit, offset)
}

// ListByOwner retrieves every snippet of one owner, newest first
func (r *snippetRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Snippet, int, error) {
	return r.list(ctx, `owner_id = $1`, []interface{}{ownerID}, limit, offset)
}

func (r *snippetRepository) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]models.Snippet, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM snippets WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapSnippetError(err, "count_snippets")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM snippets
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, snippetColumns, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapSnippetError(err, "list_snippets")
	}
	defer rows.Close()

	var snippets []models.Snippet
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, 0, mapSnippetError(err, "scan_snippet")
		}
		snippets = append(snippets, *s)
	}
	return snippets, total, rows.Err()
}

// Update rewrites the mutable snippet columns
func (r *snippetRepository) Update(ctx context.Context, snippet *models.Snippet) error {
	query := `
		UPDATE snippets
		SET title = $2, language = $3, code = $4, is_public = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		snippet.ID,
		snippet.Title,
		snippet.Language,
		snippet.Code,
		snippet.IsPublic,
	).Scan(&snippet.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return mapSnippetError(err, "update_snippet")
	}
	return nil
}

// Delete removes a snippet. Comments cascade at the schema level.
func (r *snippetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM snippets WHERE id = $1`, id)
	if err != nil {
		return mapSnippetError(err, "delete_snippet")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func mapSnippetError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("invalid owner reference: %w", models.ErrInvalidInput)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("snippet field too long: %w", models.ErrInvalidInput)
		}
	}
	return fmt.Errorf("database error during %s: %w", operation, err)
}
