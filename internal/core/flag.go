// Protocol-agnostic moderation flag aggregator
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codebin/internal/repository"
	"codebin/pkg/models"
)

// FlagService records and withdraws moderation signals on comments. Flags
// never change a comment's status; hiding a flagged comment is an external
// moderation action this service only feeds.
type FlagService interface {
	// Flag lodges a moderation signal. Idempotent within the
	// (comment, reporter, reason) scope: duplicates return the same
	// success a first-time flag does.
	Flag(ctx context.Context, commentID string, caller *models.Identity, req models.FlagCommentRequest) (*models.FlagResult, error)

	// Unflag withdraws a signal. Always succeeds, matching flag or not,
	// so retries and races never surface as errors.
	Unflag(ctx context.Context, commentID string, caller *models.Identity, reason models.FlagReason) (*models.FlagResult, error)

	// ListFlags pages through stored flags for moderators.
	ListFlags(ctx context.Context, caller *models.Identity, commentID *string, page, limit int) (*models.FlagListResponse, error)
}

type flagService struct {
	flagRepo repository.FlagRepository
	comments CommentService
}

// NewFlagService creates a new flag aggregator
func NewFlagService(flagRepo repository.FlagRepository, comments CommentService) FlagService {
	return &flagService{
		flagRepo: flagRepo,
		comments: comments,
	}
}

// Flag records a moderation signal against a comment the caller can see.
// Target resolution reuses the comment engine's visibility rule, so flagging
// cannot be used to probe for comments the caller may not know about.
func (s *flagService) Flag(ctx context.Context, commentID string, caller *models.Identity, req models.FlagCommentRequest) (*models.FlagResult, error) {
	if !req.Reason.Valid() {
		return nil, fmt.Errorf("invalid flag reason %q: %w", req.Reason, models.ErrInvalidInput)
	}
	if len(req.Message) > models.MaxFlagMessageLength {
		return nil, fmt.Errorf("flag message too long: %w", models.ErrInvalidInput)
	}

	if _, err := s.comments.GetByID(ctx, commentID, caller); err != nil {
		return nil, err
	}

	flag := &models.CommentFlag{
		ID:             uuid.New().String(),
		CommentID:      commentID,
		ReporterUserID: reporterID(caller),
		Reason:         req.Reason,
		Message:        req.Message,
		CreatedAt:      time.Now(),
	}

	// Duplicate or not, the caller sees the same result
	if _, err := s.flagRepo.Insert(ctx, flag); err != nil {
		return nil, err
	}
	return &models.FlagResult{Flagged: true}, nil
}

// Unflag withdraws a previously lodged signal, or nothing, successfully
func (s *flagService) Unflag(ctx context.Context, commentID string, caller *models.Identity, reason models.FlagReason) (*models.FlagResult, error) {
	if !reason.Valid() {
		return nil, fmt.Errorf("invalid flag reason %q: %w", reason, models.ErrInvalidInput)
	}

	if err := s.flagRepo.Delete(ctx, commentID, reporterID(caller), reason); err != nil {
		return nil, err
	}
	return &models.FlagResult{Unflagged: true}, nil
}

// ListFlags exposes the raw signal stream to moderators
func (s *flagService) ListFlags(ctx context.Context, caller *models.Identity, commentID *string, page, limit int) (*models.FlagListResponse, error) {
	if !caller.IsModerator() {
		return nil, models.ErrUnauthorized
	}

	page, limit = clampPage(page, limit, models.MaxCommentLimit)
	offset := (page - 1) * limit

	flags, total, err := s.flagRepo.ListOpen(ctx, commentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.FlagListResponse{
		Data: flags,
		Meta: models.NewPaginationMeta(total, limit, offset),
	}, nil
}

// reporterID maps an anonymous caller to the shared NULL reporter bucket
func reporterID(caller *models.Identity) *string {
	if caller == nil {
		return nil
	}
	id := caller.ID
	return &id
}
