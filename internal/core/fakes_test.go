package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"codebin/pkg/models"
)

// In-memory repository fakes. They reproduce the storage contracts the pgx
// repositories provide (one-shot soft-delete transition, counter clamping,
// conflict-skip flag insert) so the services are tested against the same
// semantics they run on in production.

type fakeSnippetRepo struct {
	mu       sync.Mutex
	snippets map[string]models.Snippet
}

func newFakeSnippetRepo() *fakeSnippetRepo {
	return &fakeSnippetRepo{snippets: make(map[string]models.Snippet)}
}

func (f *fakeSnippetRepo) Create(ctx context.Context, s *models.Snippet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = s.CreatedAt
	f.snippets[s.ID] = *s
	return nil
}

func (f *fakeSnippetRepo) GetByID(ctx context.Context, id string) (*models.Snippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snippets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSnippetRepo) ListPublic(ctx context.Context, limit, offset int) ([]models.Snippet, int, error) {
	return f.list(func(s models.Snippet) bool { return s.IsPublic }, limit, offset)
}

func (f *fakeSnippetRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Snippet, int, error) {
	return f.list(func(s models.Snippet) bool { return s.OwnerID == ownerID }, limit, offset)
}

func (f *fakeSnippetRepo) list(keep func(models.Snippet) bool, limit, offset int) ([]models.Snippet, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Snippet
	for _, s := range f.snippets {
		if keep(s) {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeSnippetRepo) Update(ctx context.Context, s *models.Snippet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.snippets[s.ID]; !ok {
		return models.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	f.snippets[s.ID] = *s
	return nil
}

func (f *fakeSnippetRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.snippets[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.snippets, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]models.Comment
	seq      map[string]int
	nextSeq  int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[string]models.Comment),
		seq:      make(map[string]int),
	}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = c.CreatedAt
	f.nextSeq++
	f.seq[c.ID] = f.nextSeq
	f.comments[c.ID] = *c

	if c.ParentID != nil {
		parent, ok := f.comments[*c.ParentID]
		if ok {
			parent.ReplyCount++
			f.comments[parent.ID] = parent
		}
	}
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCommentRepo) List(ctx context.Context, snippetID string, parentID *string, limit, offset int, order models.SortOrder) ([]models.Comment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []models.Comment
	for _, c := range f.comments {
		if c.SnippetID != snippetID || c.DeletedAt != nil || c.Status != models.CommentStatusVisible {
			continue
		}
		if parentID == nil && c.ParentID != nil {
			continue
		}
		if parentID != nil && (c.ParentID == nil || *c.ParentID != *parentID) {
			continue
		}
		all = append(all, c)
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		asc := a.CreatedAt.Before(b.CreatedAt) ||
			(a.CreatedAt.Equal(b.CreatedAt) && f.seq[a.ID] < f.seq[b.ID])
		if order == models.SortOrderDesc {
			return !asc
		}
		return asc
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeCommentRepo) UpdateBody(ctx context.Context, id, body string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	now := time.Now()
	c.Body = body
	c.EditedAt = &now
	c.UpdatedAt = now
	f.comments[id] = c
	return &c, nil
}

func (f *fakeCommentRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok || c.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
	f.comments[id] = c

	if c.ParentID != nil {
		if parent, ok := f.comments[*c.ParentID]; ok {
			if parent.ReplyCount > 0 {
				parent.ReplyCount--
			}
			f.comments[parent.ID] = parent
		}
	}
	return true, nil
}

func (f *fakeCommentRepo) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type flagKey struct {
	commentID string
	reporter  string // "" means the anonymous bucket
	reason    models.FlagReason
}

type fakeFlagRepo struct {
	mu    sync.Mutex
	flags map[flagKey]models.CommentFlag
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: make(map[flagKey]models.CommentFlag)}
}

func keyOf(commentID string, reporter *string, reason models.FlagReason) flagKey {
	k := flagKey{commentID: commentID, reason: reason}
	if reporter != nil {
		k.reporter = *reporter
	}
	return k
}

func (f *fakeFlagRepo) Insert(ctx context.Context, flag *models.CommentFlag) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(flag.CommentID, flag.ReporterUserID, flag.Reason)
	if _, exists := f.flags[k]; exists {
		return false, nil
	}
	f.flags[k] = *flag
	return true, nil
}

func (f *fakeFlagRepo) Delete(ctx context.Context, commentID string, reporterUserID *string, reason models.FlagReason) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.flags, keyOf(commentID, reporterUserID, reason))
	return nil
}

func (f *fakeFlagRepo) ListOpen(ctx context.Context, commentID *string, limit, offset int) ([]models.CommentFlag, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.CommentFlag
	for _, fl := range f.flags {
		if commentID != nil && fl.CommentID != *commentID {
			continue
		}
		all = append(all, fl)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return models.ErrUsernameExists
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	f.users[id] = u
	return nil
}
