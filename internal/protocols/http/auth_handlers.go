package http

import (
	"github.com/gin-gonic/gin"

	"codebin/pkg/models"
)

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 201, "User registered successfully", gin.H{"user": user})
}

// login handles user authentication
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondBadRequest(c, "username and password are required")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "Login successful", resp)
}

// updateUserRole allows admins to change user roles
func (s *Server) updateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	switch req.Role {
	case models.UserRoleUser, models.UserRoleModerator, models.UserRoleAdmin:
	default:
		respondBadRequest(c, "invalid role: must be user, moderator, or admin")
		return
	}

	if err := s.authSvc.UpdateUserRole(c.Request.Context(), userID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	user, err := s.authSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, 200, "User role updated successfully", gin.H{"user": user})
}
