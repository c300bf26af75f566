// Protocol-agnostic snippet management service
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codebin/internal/repository"
	"codebin/pkg/cache"
	"codebin/pkg/logger"
	"codebin/pkg/models"
	"codebin/pkg/utils"
)

// SnippetService defines snippet operations. Get is policy-gated; Resolve is
// the raw content-item read the comment engine builds its own gating on.
type SnippetService interface {
	Create(ctx context.Context, caller *models.Identity, req models.CreateSnippetRequest) (*models.Snippet, error)
	Get(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error)
	ListPublic(ctx context.Context, page, limit int) (*models.SnippetListResponse, error)
	ListOwn(ctx context.Context, caller *models.Identity, page, limit int) (*models.SnippetListResponse, error)
	Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateSnippetRequest) (*models.Snippet, error)
	Delete(ctx context.Context, id string, caller *models.Identity) error

	// Resolve loads a snippet with no access check applied. Consumers must
	// run the result through the access policy before using it.
	Resolve(ctx context.Context, id string) (*models.Snippet, error)
}

type snippetService struct {
	snippetRepo repository.SnippetRepository
	cache       cache.Cache
}

// NewSnippetService creates a new snippet service. The cache fronts Resolve
// only: the comment hot path reads snippet visibility far more often than
// snippets change.
func NewSnippetService(snippetRepo repository.SnippetRepository, c cache.Cache) SnippetService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &snippetService{
		snippetRepo: snippetRepo,
		cache:       c,
	}
}

func snippetCacheKey(id string) string {
	return "snippet:" + id
}

// Create publishes a new snippet owned by the caller
func (s *snippetService) Create(ctx context.Context, caller *models.Identity, req models.CreateSnippetRequest) (*models.Snippet, error) {
	if caller == nil {
		return nil, models.ErrUnauthorized
	}
	if err := utils.ValidateSnippetTitle(req.Title); err != nil {
		return nil, fmt.Errorf("invalid title: %w", err)
	}
	if req.Code == "" || len(req.Code) > models.MaxSnippetSize {
		return nil, fmt.Errorf("invalid code size: %w", models.ErrInvalidInput)
	}

	snippet := &models.Snippet{
		ID:        uuid.New().String(),
		OwnerID:   caller.ID,
		Title:     req.Title,
		Language:  req.Language,
		Code:      req.Code,
		IsPublic:  req.IsPublic,
		CreatedAt: time.Now(),
	}

	if err := s.snippetRepo.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}
	return snippet, nil
}

// Get retrieves one snippet, gated by the access policy
func (s *snippetService) Get(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error) {
	snippet, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertReadable(snippet, caller); err != nil {
		return nil, err
	}
	return snippet, nil
}

// Resolve loads a snippet through the read-through cache
func (s *snippetService) Resolve(ctx context.Context, id string) (*models.Snippet, error) {
	var cached models.Snippet
	hit, err := s.cache.Get(ctx, snippetCacheKey(id), &cached)
	if err != nil {
		// Cache trouble degrades to a database read
		logger.Warnf("snippet cache read failed: %v", err)
	}
	if hit {
		return &cached, nil
	}

	snippet, err := s.snippetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, snippetCacheKey(id), snippet); err != nil {
		logger.Warnf("snippet cache write failed: %v", err)
	}
	return snippet, nil
}

// ListPublic retrieves public snippets with pagination
func (s *snippetService) ListPublic(ctx context.Context, page, limit int) (*models.SnippetListResponse, error) {
	page, limit = clampPage(page, limit, models.MaxCommentLimit)
	offset := (page - 1) * limit

	snippets, total, err := s.snippetRepo.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	return &models.SnippetListResponse{
		Data: snippets,
		Meta: models.NewPaginationMeta(total, limit, offset),
	}, nil
}

// ListOwn retrieves the caller's snippets, private ones included
func (s *snippetService) ListOwn(ctx context.Context, caller *models.Identity, page, limit int) (*models.SnippetListResponse, error) {
	if caller == nil {
		return nil, models.ErrUnauthorized
	}
	page, limit = clampPage(page, limit, models.MaxCommentLimit)
	offset := (page - 1) * limit

	snippets, total, err := s.snippetRepo.ListByOwner(ctx, caller.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	return &models.SnippetListResponse{
		Data: snippets,
		Meta: models.NewPaginationMeta(total, limit, offset),
	}, nil
}

// Update rewrites snippet fields; owner or admin only
func (s *snippetService) Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateSnippetRequest) (*models.Snippet, error) {
	snippet, err := s.snippetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnerOrAdmin(snippet, caller); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := utils.ValidateSnippetTitle(*req.Title); err != nil {
			return nil, fmt.Errorf("invalid title: %w", err)
		}
		snippet.Title = *req.Title
	}
	if req.Language != nil {
		snippet.Language = *req.Language
	}
	if req.Code != nil {
		if *req.Code == "" || len(*req.Code) > models.MaxSnippetSize {
			return nil, fmt.Errorf("invalid code size: %w", models.ErrInvalidInput)
		}
		snippet.Code = *req.Code
	}
	if req.IsPublic != nil {
		snippet.IsPublic = *req.IsPublic
	}

	if err := s.snippetRepo.Update(ctx, snippet); err != nil {
		return nil, fmt.Errorf("failed to update snippet: %w", err)
	}

	// Visibility may have changed; stale cache entries would leak reads
	if err := s.cache.Delete(ctx, snippetCacheKey(id)); err != nil {
		logger.Warnf("snippet cache invalidation failed: %v", err)
	}
	return snippet, nil
}

// Delete removes a snippet; owner or admin only
func (s *snippetService) Delete(ctx context.Context, id string, caller *models.Identity) error {
	snippet, err := s.snippetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwnerOrAdmin(snippet, caller); err != nil {
		return err
	}

	if err := s.snippetRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	if err := s.cache.Delete(ctx, snippetCacheKey(id)); err != nil {
		logger.Warnf("snippet cache invalidation failed: %v", err)
	}
	return nil
}

// clampPage normalizes pagination input (1-indexed page, bounded limit)
func clampPage(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
