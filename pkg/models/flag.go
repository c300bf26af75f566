package models

import "time"

// FlagReason is the reporter-selected category of a moderation flag
type FlagReason string

const (
	FlagReasonSpam     FlagReason = "spam"
	FlagReasonAbuse    FlagReason = "abuse"
	FlagReasonOffTopic FlagReason = "off-topic"
	FlagReasonOther    FlagReason = "other"
)

// Valid reports whether the reason is one of the known categories.
func (r FlagReason) Valid() bool {
	switch r {
	case FlagReasonSpam, FlagReasonAbuse, FlagReasonOffTopic, FlagReasonOther:
		return true
	}
	return false
}

// CommentFlag is a moderation signal lodged against a comment. Uniqueness is
// scoped to (comment_id, reporter_user_id, reason); a nil reporter is the
// shared anonymous bucket: all anonymous reporters deduplicate against each
// other.
type CommentFlag struct {
	ID             string     `json:"id" db:"id"`
	CommentID      string     `json:"comment_id" db:"comment_id"`
	ReporterUserID *string    `json:"reporter_user_id" db:"reporter_user_id"`
	Reason         FlagReason `json:"reason" db:"reason"`
	Message        string     `json:"message,omitempty" db:"message"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// FlagCommentRequest
type FlagCommentRequest struct {
	Reason  FlagReason `json:"reason" validate:"required,oneof=spam abuse off-topic other"`
	Message string     `json:"message,omitempty" validate:"max=500"`
}

// UnflagCommentRequest
type UnflagCommentRequest struct {
	Reason FlagReason `json:"reason" validate:"required,oneof=spam abuse off-topic other"`
}

// FlagResult is the fixed success envelope for flag/unflag. Duplicates and
// no-op removals return the same result as a first-time call.
type FlagResult struct {
	Flagged   bool `json:"flagged,omitempty"`
	Unflagged bool `json:"unflagged,omitempty"`
}

// FlagListResponse is a paginated list of open flags for moderators
type FlagListResponse struct {
	Data []CommentFlag  `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

const MaxFlagMessageLength = 500
