package models

import "time"

// CommentStatus is the moderation axis of a comment, independent of
// soft-deletion. Nothing in this codebase ever transitions a comment to
// hidden; moderation writes that column directly and we only read it.
type CommentStatus string

const (
	CommentStatusVisible CommentStatus = "visible"
	CommentStatusHidden  CommentStatus = "hidden"
)

// Comment represents one node of a snippet's comment thread. Threads are
// stored flat with a nullable parent pointer; a soft-deleted comment keeps
// its row and its position so children stay attached.
type Comment struct {
	ID         string        `json:"id" db:"id"`
	SnippetID  string        `json:"snippet_id" db:"snippet_id"`
	AuthorID   *string       `json:"author_id" db:"author_id"`
	ParentID   *string       `json:"parent_id" db:"parent_id"`
	Body       string        `json:"body" db:"body"`
	Status     CommentStatus `json:"status" db:"status"`
	ReplyCount int           `json:"reply_count" db:"reply_count"`
	DeletedAt  *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
	EditedAt   *time.Time    `json:"edited_at,omitempty" db:"edited_at"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the comment has been tombstoned.
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsAuthor reports whether the given identity wrote this comment.
// Anonymous comments have no author, so nobody matches them.
func (c *Comment) IsAuthor(caller *Identity) bool {
	return caller != nil && c.AuthorID != nil && *c.AuthorID == caller.ID
}

// CreateCommentRequest
type CreateCommentRequest struct {
	Body     string  `json:"body" validate:"required,min=1,max=5000"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateCommentRequest
type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// SortOrder is the listing direction on creation time
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ListCommentsRequest - parent filter absent means top-level comments only
type ListCommentsRequest struct {
	ParentID *string   `json:"parent_id,omitempty"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Order    SortOrder `json:"order"`
}

// CommentListResponse is a paginated slice of one thread level
type CommentListResponse struct {
	Data []Comment      `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

const (
	MaxCommentLength = 5000
	MaxCommentLimit  = 100
	DefaultLimit     = 20
)
