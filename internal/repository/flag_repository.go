package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"codebin/pkg/models"
)

// FlagRepository handles moderation flag persistence. Inserts skip
// duplicates at the constraint level (two partial unique indexes cover the
// authenticated and the anonymous reporter scopes), so retries and races
// collapse into one stored row without surfacing an error.
type FlagRepository interface {
	// Insert stores the flag. Reports whether a new row was written;
	// a duplicate within the uniqueness scope is a successful no-op.
	Insert(ctx context.Context, flag *models.CommentFlag) (bool, error)

	// Delete removes a matching flag if one exists. Removing nothing is
	// not an error.
	Delete(ctx context.Context, commentID string, reporterUserID *string, reason models.FlagReason) error

	// ListOpen pages through stored flags, optionally scoped to one
	// comment, newest first.
	ListOpen(ctx context.Context, commentID *string, limit, offset int) ([]models.CommentFlag, int, error)
}

type flagRepository struct {
	pool *pgxpool.Pool
}

// NewFlagRepository creates a new PostgreSQL flag repository
func NewFlagRepository(pool *pgxpool.Pool) FlagRepository {
	return &flagRepository{pool: pool}
}

// Insert stores a flag with conflict-skip semantics
func (r *flagRepository) Insert(ctx context.Context, flag *models.CommentFlag) (bool, error) {
	if flag.ID == "" {
		flag.ID = fallbackID("flag")
	}

	query := `
		INSERT INTO comment_flags (id, comment_id, reporter_user_id, reason, message, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_TIMESTAMP))
		ON CONFLICT DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		flag.ID,
		flag.CommentID,
		flag.ReporterUserID,
		string(flag.Reason),
		flag.Message,
		flag.CreatedAt,
	)
	if err != nil {
		return false, mapFlagError(err, "insert_flag")
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a flag; zero rows affected is success
func (r *flagRepository) Delete(ctx context.Context, commentID string, reporterUserID *string, reason models.FlagReason) error {
	query := `
		DELETE FROM comment_flags
		WHERE comment_id = $1
		  AND reason = $2
		  AND (reporter_user_id = $3 OR ($3::text IS NULL AND reporter_user_id IS NULL))
	`

	if _, err := r.pool.Exec(ctx, query, commentID, string(reason), reporterUserID); err != nil {
		return mapFlagError(err, "delete_flag")
	}
	return nil
}

// ListOpen pages through flags for the moderation surface
func (r *flagRepository) ListOpen(ctx context.Context, commentID *string, limit, offset int) ([]models.CommentFlag, int, error) {
	where := `TRUE`
	args := []interface{}{}
	if commentID != nil {
		where = `comment_id = $1`
		args = append(args, *commentID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM comment_flags WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapFlagError(err, "count_flags")
	}

	query := fmt.Sprintf(`
		SELECT id, comment_id, reporter_user_id, reason, message, created_at
		FROM comment_flags
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapFlagError(err, "list_flags")
	}
	defer rows.Close()

	var flags []models.CommentFlag
	for rows.Next() {
		var f models.CommentFlag
		var reason string
		err := rows.Scan(&f.ID, &f.CommentID, &f.ReporterUserID, &reason, &f.Message, &f.CreatedAt)
		if err != nil {
			return nil, 0, mapFlagError(err, "scan_flag")
		}
		f.Reason = models.FlagReason(reason)
		flags = append(flags, f)
	}
	return flags, total, rows.Err()
}

func mapFlagError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		// foreign_key_violation: the comment vanished between the engine's
		// existence check and the insert
		return fmt.Errorf("invalid comment reference: %w", models.ErrNotFound)
	}
	return fmt.Errorf("database error during %s: %w", operation, err)
}
