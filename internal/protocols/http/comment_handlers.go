package http

import (
	"github.com/gin-gonic/gin"

	"codebin/pkg/models"
)

// createComment posts a comment or reply on a snippet
func (s *Server) createComment(c *gin.Context) {
	snippetID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := s.commentSvc.Create(c.Request.Context(), snippetID, GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 201, "Comment created successfully", comment)
}

// listComments returns one level of a snippet's comment thread
func (s *Server) listComments(c *gin.Context) {
	snippetID := c.Param("id")
	page, limit := paginationParams(c)

	req := models.ListCommentsRequest{
		Page:  page,
		Limit: limit,
		Order: models.SortOrder(c.Query("order")),
	}
	if parent := c.Query("parent_id"); parent != "" {
		req.ParentID = &parent
	}

	result, err := s.commentSvc.List(c.Request.Context(), snippetID, GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", result)
}

// getComment returns a single comment by id
func (s *Server) getComment(c *gin.Context) {
	comment, err := s.commentSvc.GetByID(c.Request.Context(), c.Param("id"), GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", comment)
}

// updateComment edits a comment body for the author or an admin
func (s *Server) updateComment(c *gin.Context) {
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := s.commentSvc.Update(c.Request.Context(), c.Param("id"), GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Comment updated successfully", comment)
}

// deleteComment tombstones a comment; replies stay attached
func (s *Server) deleteComment(c *gin.Context) {
	if err := s.commentSvc.SoftDelete(c.Request.Context(), c.Param("id"), GetIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Comment deleted successfully", nil)
}
