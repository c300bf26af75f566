package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"codebin/pkg/models"
)

// createSnippet publishes a new snippet owned by the caller
func (s *Server) createSnippet(c *gin.Context) {
	var req models.CreateSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	snippet, err := s.snippetSvc.Create(c.Request.Context(), GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 201, "Snippet created successfully", snippet)
}

// getSnippet returns one snippet if the caller may read it
func (s *Server) getSnippet(c *gin.Context) {
	snippet, err := s.snippetSvc.Get(c.Request.Context(), c.Param("id"), GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", snippet)
}

// listSnippets returns the public snippet listing
func (s *Server) listSnippets(c *gin.Context) {
	page, limit := paginationParams(c)

	result, err := s.snippetSvc.ListPublic(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", result)
}

// listOwnSnippets returns the caller's snippets, private ones included
func (s *Server) listOwnSnippets(c *gin.Context) {
	page, limit := paginationParams(c)

	result, err := s.snippetSvc.ListOwn(c.Request.Context(), GetIdentity(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "", result)
}

// updateSnippet rewrites snippet fields for the owner or an admin
func (s *Server) updateSnippet(c *gin.Context) {
	var req models.UpdateSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	snippet, err := s.snippetSvc.Update(c.Request.Context(), c.Param("id"), GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Snippet updated successfully", snippet)
}

// deleteSnippet removes a snippet for the owner or an admin
func (s *Server) deleteSnippet(c *gin.Context) {
	if err := s.snippetSvc.Delete(c.Request.Context(), c.Param("id"), GetIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Snippet deleted successfully", nil)
}

// paginationParams parses page/limit query parameters; the services clamp
// whatever comes out of here.
func paginationParams(c *gin.Context) (int, int) {
	page := 1
	limit := models.DefaultLimit

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	return page, limit
}
