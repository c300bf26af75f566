package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebin/pkg/config"
	"codebin/pkg/models"
)

// Stub services with function fields so each test wires only what it needs

type stubAuthSvc struct {
	validateToken func(ctx context.Context, token string) (*models.User, error)
	register      func(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	login         func(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

func (s *stubAuthSvc) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if s.register != nil {
		return s.register(ctx, req)
	}
	return nil, fmt.Errorf("not wired")
}

func (s *stubAuthSvc) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	return nil, fmt.Errorf("not wired")
}

func (s *stubAuthSvc) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if s.validateToken != nil {
		return s.validateToken(ctx, token)
	}
	return nil, models.ErrInvalidToken
}

func (s *stubAuthSvc) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (s *stubAuthSvc) UpdateUserRole(ctx context.Context, userID string, newRole models.UserRole) error {
	return models.ErrNotFound
}

type stubSnippetSvc struct {
	get func(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error)
}

func (s *stubSnippetSvc) Create(ctx context.Context, caller *models.Identity, req models.CreateSnippetRequest) (*models.Snippet, error) {
	return nil, fmt.Errorf("not wired")
}

func (s *stubSnippetSvc) Get(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error) {
	if s.get != nil {
		return s.get(ctx, id, caller)
	}
	return nil, models.ErrNotFound
}

func (s *stubSnippetSvc) ListPublic(ctx context.Context, page, limit int) (*models.SnippetListResponse, error) {
	return &models.SnippetListResponse{}, nil
}

func (s *stubSnippetSvc) ListOwn(ctx context.Context, caller *models.Identity, page, limit int) (*models.SnippetListResponse, error) {
	return &models.SnippetListResponse{}, nil
}

func (s *stubSnippetSvc) Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateSnippetRequest) (*models.Snippet, error) {
	return nil, models.ErrNotFound
}

func (s *stubSnippetSvc) Delete(ctx context.Context, id string, caller *models.Identity) error {
	return models.ErrNotFound
}

func (s *stubSnippetSvc) Resolve(ctx context.Context, id string) (*models.Snippet, error) {
	return nil, models.ErrNotFound
}

type stubCommentSvc struct {
	create func(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error)
	list   func(ctx context.Context, snippetID string, caller *models.Identity, req models.ListCommentsRequest) (*models.CommentListResponse, error)
	getOne func(ctx context.Context, id string, caller *models.Identity) (*models.Comment, error)
}

func (s *stubCommentSvc) Create(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error) {
	if s.create != nil {
		return s.create(ctx, snippetID, caller, req)
	}
	return nil, fmt.Errorf("not wired")
}

func (s *stubCommentSvc) List(ctx context.Context, snippetID string, caller *models.Identity, req models.ListCommentsRequest) (*models.CommentListResponse, error) {
	if s.list != nil {
		return s.list(ctx, snippetID, caller, req)
	}
	return nil, models.ErrNotFound
}

func (s *stubCommentSvc) GetByID(ctx context.Context, id string, caller *models.Identity) (*models.Comment, error) {
	if s.getOne != nil {
		return s.getOne(ctx, id, caller)
	}
	return nil, models.ErrNotFound
}

func (s *stubCommentSvc) Update(ctx context.Context, id string, caller *models.Identity, req models.UpdateCommentRequest) (*models.Comment, error) {
	return nil, models.ErrNotFound
}

func (s *stubCommentSvc) SoftDelete(ctx context.Context, id string, caller *models.Identity) error {
	return models.ErrNotFound
}

type stubFlagSvc struct {
	flag      func(ctx context.Context, commentID string, caller *models.Identity, req models.FlagCommentRequest) (*models.FlagResult, error)
	listFlags func(ctx context.Context, caller *models.Identity, commentID *string, page, limit int) (*models.FlagListResponse, error)
}

func (s *stubFlagSvc) Flag(ctx context.Context, commentID string, caller *models.Identity, req models.FlagCommentRequest) (*models.FlagResult, error) {
	if s.flag != nil {
		return s.flag(ctx, commentID, caller, req)
	}
	return &models.FlagResult{Flagged: true}, nil
}

func (s *stubFlagSvc) Unflag(ctx context.Context, commentID string, caller *models.Identity, reason models.FlagReason) (*models.FlagResult, error) {
	return &models.FlagResult{Unflagged: true}, nil
}

func (s *stubFlagSvc) ListFlags(ctx context.Context, caller *models.Identity, commentID *string, page, limit int) (*models.FlagListResponse, error) {
	if s.listFlags != nil {
		return s.listFlags(ctx, caller, commentID, page, limit)
	}
	return nil, models.ErrUnauthorized
}

func newTestServer(auth *stubAuthSvc, snippets *stubSnippetSvc, comments *stubCommentSvc, flags *stubFlagSvc) *Server {
	if auth == nil {
		auth = &stubAuthSvc{}
	}
	if snippets == nil {
		snippets = &stubSnippetSvc{}
	}
	if comments == nil {
		comments = &stubCommentSvc{}
	}
	if flags == nil {
		flags = &stubFlagSvc{}
	}
	return NewServer(&config.Config{}, auth, snippets, comments, flags)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)
	w := doRequest(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, 200, w.Code)
}

func TestNotFoundBodiesAreIndistinguishable(t *testing.T) {
	private := &models.Snippet{ID: "priv", OwnerID: "u1", IsPublic: false}
	snippets := &stubSnippetSvc{
		get: func(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error) {
			// Both a missing id and a private id surface the same error
			if id == "priv" || id == "missing" {
				return nil, models.ErrNotFound
			}
			return private, nil
		},
	}
	s := newTestServer(nil, snippets, nil, nil)

	wMissing := doRequest(t, s, http.MethodGet, "/api/v1/snippets/missing", nil, "")
	wPrivate := doRequest(t, s, http.MethodGet, "/api/v1/snippets/priv", nil, "")

	assert.Equal(t, 404, wMissing.Code)
	assert.Equal(t, 404, wPrivate.Code)

	respMissing := decodeResponse(t, wMissing)
	respPrivate := decodeResponse(t, wPrivate)
	assert.Equal(t, respMissing.Error, respPrivate.Error)
	assert.Equal(t, "not found", respMissing.Error)
}

func TestCreateCommentRequiresAuth(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	w := doRequest(t, s, http.MethodPost, "/api/v1/snippets/s1/comments",
		models.CreateCommentRequest{Body: "hello"}, "")
	assert.Equal(t, 401, w.Code)
}

func TestCreateCommentPassesIdentity(t *testing.T) {
	auth := &stubAuthSvc{
		validateToken: func(ctx context.Context, token string) (*models.User, error) {
			if token == "good" {
				return &models.User{ID: "u1", Role: models.UserRoleUser}, nil
			}
			return nil, models.ErrInvalidToken
		},
	}

	var gotCaller *models.Identity
	comments := &stubCommentSvc{
		create: func(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error) {
			gotCaller = caller
			author := caller.ID
			return &models.Comment{ID: "c1", SnippetID: snippetID, AuthorID: &author, Body: req.Body}, nil
		},
	}
	s := newTestServer(auth, nil, comments, nil)

	w := doRequest(t, s, http.MethodPost, "/api/v1/snippets/s1/comments",
		models.CreateCommentRequest{Body: "hello"}, "good")
	assert.Equal(t, 201, w.Code)
	require.NotNil(t, gotCaller)
	assert.Equal(t, "u1", gotCaller.ID)
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	// No token: anonymous read proceeds (and 404s on the stub)
	w := doRequest(t, s, http.MethodGet, "/api/v1/comments/c1", nil, "")
	assert.Equal(t, 404, w.Code)

	// Garbage token: rejected rather than silently downgraded
	w = doRequest(t, s, http.MethodGet, "/api/v1/comments/c1", nil, "garbage")
	assert.Equal(t, 401, w.Code)
}

func TestAnonymousFlagAccepted(t *testing.T) {
	var gotCaller *models.Identity
	called := false
	flags := &stubFlagSvc{
		flag: func(ctx context.Context, commentID string, caller *models.Identity, req models.FlagCommentRequest) (*models.FlagResult, error) {
			called = true
			gotCaller = caller
			return &models.FlagResult{Flagged: true}, nil
		},
	}
	s := newTestServer(nil, nil, nil, flags)

	w := doRequest(t, s, http.MethodPost, "/api/v1/comments/c1/flags",
		models.FlagCommentRequest{Reason: models.FlagReasonSpam}, "")
	assert.Equal(t, 200, w.Code)
	assert.True(t, called)
	assert.Nil(t, gotCaller)
}

func TestUnflagRejectsUnknownReason(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	w := doRequest(t, s, http.MethodDelete, "/api/v1/comments/c1/flags?reason=bogus", nil, "")
	assert.Equal(t, 400, w.Code)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/comments/c1/flags?reason=spam", nil, "")
	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestModerationListRequiresModerator(t *testing.T) {
	auth := &stubAuthSvc{
		validateToken: func(ctx context.Context, token string) (*models.User, error) {
			return &models.User{ID: "u1", Role: models.UserRoleUser}, nil
		},
	}
	s := newTestServer(auth, nil, nil, &stubFlagSvc{})

	w := doRequest(t, s, http.MethodGet, "/api/v1/moderation/flags", nil, "any")
	assert.Equal(t, 401, w.Code)
}

func TestInvalidInputMapsTo400(t *testing.T) {
	auth := &stubAuthSvc{
		validateToken: func(ctx context.Context, token string) (*models.User, error) {
			return &models.User{ID: "u1", Role: models.UserRoleUser}, nil
		},
	}
	comments := &stubCommentSvc{
		create: func(ctx context.Context, snippetID string, caller *models.Identity, req models.CreateCommentRequest) (*models.Comment, error) {
			return nil, fmt.Errorf("comment body too long: %w", models.ErrInvalidInput)
		},
	}
	s := newTestServer(auth, nil, comments, nil)

	w := doRequest(t, s, http.MethodPost, "/api/v1/snippets/s1/comments",
		models.CreateCommentRequest{Body: "x"}, "tok")
	assert.Equal(t, 400, w.Code)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	snippets := &stubSnippetSvc{
		get: func(ctx context.Context, id string, caller *models.Identity) (*models.Snippet, error) {
			return nil, fmt.Errorf("pq: connection refused on 10.0.0.3")
		},
	}
	s := newTestServer(nil, snippets, nil, nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/snippets/s1", nil, "")
	assert.Equal(t, 500, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestListCommentsForwardsFilters(t *testing.T) {
	var gotReq models.ListCommentsRequest
	comments := &stubCommentSvc{
		list: func(ctx context.Context, snippetID string, caller *models.Identity, req models.ListCommentsRequest) (*models.CommentListResponse, error) {
			gotReq = req
			return &models.CommentListResponse{}, nil
		},
	}
	s := newTestServer(nil, nil, comments, nil)

	w := doRequest(t, s, http.MethodGet,
		"/api/v1/snippets/s1/comments?parent_id=c9&page=2&limit=5&order=desc", nil, "")
	assert.Equal(t, 200, w.Code)
	require.NotNil(t, gotReq.ParentID)
	assert.Equal(t, "c9", *gotReq.ParentID)
	assert.Equal(t, 2, gotReq.Page)
	assert.Equal(t, 5, gotReq.Limit)
	assert.Equal(t, models.SortOrderDesc, gotReq.Order)
}

func TestAdminRouteForbiddenForUsers(t *testing.T) {
	auth := &stubAuthSvc{
		validateToken: func(ctx context.Context, token string) (*models.User, error) {
			return &models.User{ID: "u1", Role: models.UserRoleUser}, nil
		},
	}
	s := newTestServer(auth, nil, nil, nil)

	w := doRequest(t, s, http.MethodPut, "/api/v1/admin/users/u2/role",
		map[string]string{"role": "moderator"}, "tok")
	assert.Equal(t, 403, w.Code)
}
