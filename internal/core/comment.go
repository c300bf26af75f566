// Protocol-agnostic comment thread engine
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codebin/internal/repository"
	"codebin/pkg/models"
	"codebin/pkg/utils"
)

// CommentService owns the comment lifecycle: creation, threaded listing,
// edit, and soft-delete with reply-count maintenance. Every operation is
// gated through the access policy against the owning snippet, so all
// "missing" and "not permitted" outcomes collapse into models.ErrNotFound.
type CommentService interface {
	Create(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, snippetID string, caller *models.Identity, req models.ListCommentsRequest) (*models.CommentListResponse, error)
	GetByID(ctx context.Context, id string, caller *models.Identity) (*models.Comment, error)
	Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateCommentRequest) (*models.Comment, error)
	SoftDelete(ctx context.Context, id string, caller *models.Identity) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	snippets    SnippetService
	maxPageSize int
}

// NewCommentService creates a new comment thread engine
func NewCommentService(commentRepo repository.CommentRepository, snippets SnippetService, maxPageSize int) CommentService {
	if maxPageSize <= 0 {
		maxPageSize = models.MaxCommentLimit
	}
	return &commentService{
		commentRepo: commentRepo,
		snippets:    snippets,
		maxPageSize: maxPageSize,
	}
}

// readableSnippet resolves the owning snippet and applies the access policy.
// A missing snippet and an unreadable one come back as the same ErrNotFound.
func (s *commentService) readableSnippet(ctx context.Context, snippetID string, caller *models.Identity) (*models.Snippet, error) {
	snippet, err := s.snippets.Resolve(ctx, snippetID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if err := AssertReadable(snippet, caller); err != nil {
		return nil, err
	}
	return snippet, nil
}

// Create adds a comment to a snippet the caller can view. Authoring requires
// identity even where anonymous reading is allowed.
func (s *commentService) Create(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.readableSnippet(ctx, snippetID, caller); err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateCommentBody(req.Body); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		// Cross-snippet parenting is invalid, and surfacing it differently
		// from a missing parent would leak the parent's existence.
		if parent.SnippetID != snippetID {
			return nil, models.ErrNotFound
		}
		// Tombstoned or hidden parents take no new replies
		if parent.IsDeleted() || parent.Status != models.CommentStatusVisible {
			return nil, models.ErrNotFound
		}
	}

	authorID := caller.ID
	comment := &models.Comment{
		ID:        uuid.New().String(),
		SnippetID: snippetID,
		AuthorID:  &authorID,
		ParentID:  req.ParentID,
		Body:      req.Body,
		Status:    models.CommentStatusVisible,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List retrieves one thread level of a viewable snippet. With no parent
// filter it returns top-level comments; with one, the direct replies of that
// parent. Deleted and hidden comments are excluded.
func (s *commentService) List(ctx context.Context, snippetID string, caller *models.Identity, req models.ListCommentsRequest) (*models.CommentListResponse, error) {
	if _, err := s.readableSnippet(ctx, snippetID, caller); err != nil {
		return nil, err
	}

	page, limit := clampPage(req.Page, req.Limit, s.maxPageSize)
	offset := (page - 1) * limit

	order := req.Order
	if order != models.SortOrderDesc {
		order = models.SortOrderAsc
	}

	comments, total, err := s.commentRepo.List(ctx, snippetID, req.ParentID, limit, offset, order)
	if err != nil {
		return nil, err
	}

	return &models.CommentListResponse{
		Data: comments,
		Meta: models.NewPaginationMeta(total, limit, offset),
	}, nil
}

// GetByID retrieves a single comment. Tombstoned or hidden comments stay
// visible to their own author and admins; everyone else gets the same
// ErrNotFound a nonexistent id produces.
func (s *commentService) GetByID(ctx context.Context, id string, caller *models.Identity) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.readableSnippet(ctx, comment.SnippetID, caller); err != nil {
		return nil, err
	}

	if comment.IsDeleted() || comment.Status != models.CommentStatusVisible {
		if !comment.IsAuthor(caller) && !caller.IsAdmin() {
			return nil, models.ErrNotFound
		}
	}
	return comment, nil
}

// Update rewrites a comment's body and stamps edited_at. Author or admin
// only; anyone else cannot learn the comment exists.
func (s *commentService) Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.IsAuthor(caller) && !caller.IsAdmin() {
		return nil, models.ErrNotFound
	}
	if comment.IsDeleted() {
		return nil, models.ErrNotFound
	}
	if err := utils.ValidateCommentBody(req.Body); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	return s.commentRepo.UpdateBody(ctx, id, req.Body)
}

// SoftDelete tombstones a comment. Idempotent: deleting a deleted comment is
// a silent success with no second counter decrement. Children keep their
// parent pointer, so the thread shape survives.
func (s *commentService) SoftDelete(ctx context.Context, id string, caller *models.Identity) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !comment.IsAuthor(caller) && !caller.IsAdmin() {
		return models.ErrNotFound
	}
	if comment.IsDeleted() {
		return nil
	}

	// The repository guards the transition, so a concurrent double-delete
	// still decrements the parent counter at most once.
	_, err = s.commentRepo.SoftDelete(ctx, id)
	return err
}
