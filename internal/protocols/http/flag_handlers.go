package http

import (
	"github.com/gin-gonic/gin"

	"codebin/pkg/models"
)

// flagComment reports a comment for moderation. Anonymous reports are
// accepted; repeats of the same report succeed without stacking.
func (s *Server) flagComment(c *gin.Context) {
	commentID := c.Param("id")

	var req models.FlagCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := s.flagSvc.Flag(c.Request.Context(), commentID, GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Comment flagged", result)
}

// unflagComment withdraws the caller's own report for the given reason.
// Withdrawing a report that was never made still succeeds.
func (s *Server) unflagComment(c *gin.Context) {
	commentID := c.Param("id")

	reason := models.FlagReason(c.Query("reason"))
	if !reason.Valid() {
		respondBadRequest(c, "invalid or missing reason")
		return
	}

	result, err := s.flagSvc.Unflag(c.Request.Context(), commentID, GetIdentity(c), reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Flag withdrawn", result)
}

// listFlags returns open flags for moderators, optionally scoped to one comment
func (s *Server) listFlags(c *gin.Context) {
	page, limit := paginationParams(c)

	var commentID *string
	if id := c.Query("comment_id"); id != "" {
		commentID = &id
	}

	result, err := s.flagSvc.ListFlags(c.Request.Context(), GetIdentity(c), commentID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", result)
}
