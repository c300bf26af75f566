package models

import "time"

// Snippet represents a published code snippet. It is the content item every
// comment thread hangs off: the access policy only ever looks at OwnerID and
// IsPublic.
type Snippet struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Language  string    `json:"language" db:"language"`
	Code      string    `json:"code" db:"code"`
	IsPublic  bool      `json:"is_public" db:"is_public"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ContentItem is anything ownable and visibility-tagged. Snippets implement
// it today; any future commentable type routes through the same access policy
// by implementing it too.
type ContentItem interface {
	GetOwnerID() string
	GetIsPublic() bool
}

func (s *Snippet) GetOwnerID() string { return s.OwnerID }

func (s *Snippet) GetIsPublic() bool { return s.IsPublic }

// CreateSnippetRequest
type CreateSnippetRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Language string `json:"language" validate:"max=50"`
	Code     string `json:"code" validate:"required"`
	IsPublic bool   `json:"is_public"`
}

// UpdateSnippetRequest - nil fields are left untouched
type UpdateSnippetRequest struct {
	Title    *string `json:"title,omitempty"`
	Language *string `json:"language,omitempty"`
	Code     *string `json:"code,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// SnippetListResponse is a paginated list of snippets
type SnippetListResponse struct {
	Data []Snippet      `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

const MaxSnippetSize = 1 << 20 // 1 MiB of code is plenty
