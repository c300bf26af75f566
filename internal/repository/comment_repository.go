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

// CommentRepository handles comment data persistence. Rows are never removed:
// soft-delete stamps deleted_at and the row stays as a thread placeholder.
//
// reply_count maintenance lives here, in SQL, so concurrent replies to the
// same parent can never lose an increment to a read-modify-write race.
type CommentRepository interface {
	// Create inserts the comment and, when it has a parent, bumps the
	// parent's reply_count in the same transaction.
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID returns the row regardless of deletion or moderation state.
	// Visibility decisions belong to the engine, not the store.
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// List returns one thread level: live, visible comments of a snippet
	// whose parent matches the filter (nil parent = top-level).
	List(ctx context.Context, snippetID string, parentID *string, limit, offset int, order models.SortOrder) ([]models.Comment, int, error)

	// UpdateBody rewrites the body and stamps edited_at.
	UpdateBody(ctx context.Context, id, body string) (*models.Comment, error)

	// SoftDelete tombstones the comment if it is still alive and, on that
	// first transition only, decrements the parent's reply_count
	// (floor-clamped at zero). Reports whether this call did the transition.
	SoftDelete(ctx context.Context, id string) (bool, error)

	// WithTransaction executes fn inside a database transaction.
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, snippet_id, author_id, parent_id, body, status, reply_count, deleted_at, edited_at, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	c := &models.Comment{}
	var status string
	err := row.Scan(
		&c.ID,
		&c.SnippetID,
		&c.AuthorID,
		&c.ParentID,
		&c.Body,
		&status,
		&c.ReplyCount,
		&c.DeletedAt,
		&c.EditedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.CommentStatus(status)
	return c, nil
}

// Create inserts a new comment and maintains the parent counter
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.WithTransaction(ctx, func(tx pgx.Tx) error {
		if comment.ID == "" {
			comment.ID = fallbackID("comm")
		}

		insertQuery := `
			INSERT INTO comments (id, snippet_id, author_id, parent_id, body, status, reply_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, COALESCE($7, CURRENT_TIMESTAMP), COALESCE($7, CURRENT_TIMESTAMP))
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, insertQuery,
			comment.ID,
			comment.SnippetID,
			comment.AuthorID,
			comment.ParentID,
			comment.Body,
			string(comment.Status),
			comment.CreatedAt,
		).Scan(&comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			return mapCommentError(err, "create_comment")
		}

		if comment.ParentID == nil {
			return nil
		}

		// Atomic increment; no read-modify-write
		incrQuery := `
			UPDATE comments
			SET reply_count = reply_count + 1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, incrQuery, *comment.ParentID); err != nil {
			return mapCommentError(err, "increment_reply_count")
		}
		return nil
	})
}

// GetByID retrieves a comment by ID, tombstones included
func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapCommentError(err, "get_comment")
	}
	return comment, nil
}

// List retrieves one level of a snippet's thread with pagination
func (r *commentRepository) List(ctx context.Context, snippetID string, parentID *string, limit, offset int, order models.SortOrder) ([]models.Comment, int, error) {
	where := `snippet_id = $1 AND deleted_at IS NULL AND status = 'visible'`
	args := []interface{}{snippetID}
	if parentID != nil {
		where += ` AND parent_id = $2`
		args = append(args, *parentID)
	} else {
		where += ` AND parent_id IS NULL`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM comments WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapCommentError(err, "count_comments")
	}

	dir := "ASC"
	if order == models.SortOrderDesc {
		dir = "DESC"
	}

	// seq is a bigserial assigned at insert; it breaks created_at ties in
	// insertion order so paging is stable.
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE %s
		ORDER BY created_at %s, seq %s
		LIMIT $%d OFFSET $%d
	`, commentColumns, where, dir, dir, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapCommentError(err, "list_comments")
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, mapCommentError(err, "scan_comment")
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

// UpdateBody rewrites the comment body and stamps edited_at
func (r *commentRepository) UpdateBody(ctx context.Context, id, body string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET body = $2, edited_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + commentColumns

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id, body))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapCommentError(err, "update_comment_body")
	}
	return comment, nil
}

// SoftDelete tombstones a comment exactly once
func (r *commentRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var transitioned bool

	err := r.WithTransaction(ctx, func(tx pgx.Tx) error {
		// The deleted_at IS NULL guard makes the transition one-shot even
		// under concurrent deletes: only one caller sees a row come back.
		deleteQuery := `
			UPDATE comments
			SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING parent_id
		`

		var parentID *string
		err := tx.QueryRow(ctx, deleteQuery, id).Scan(&parentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // already deleted; nothing to do
		}
		if err != nil {
			return mapCommentError(err, "soft_delete_comment")
		}
		transitioned = true

		if parentID == nil {
			return nil
		}

		decrQuery := `
			UPDATE comments
			SET reply_count = GREATEST(reply_count - 1, 0), updated_at = CURRENT_TIMESTAMP
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, decrQuery, *parentID); err != nil {
			return mapCommentError(err, "decrement_reply_count")
		}
		return nil
	})

	return transitioned, err
}

// WithTransaction executes a function within a database transaction
func (r *commentRepository) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapCommentError(err, "begin_transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func mapCommentError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("invalid snippet or parent reference: %w", models.ErrNotFound)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("comment body too long: %w", models.ErrInvalidInput)
		}
	}
	return fmt.Errorf("database error during %s: %w", operation, err)
}
