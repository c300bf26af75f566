package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"codebin/internal/core"
	"codebin/pkg/config"
)

// Server manages the HTTP REST API server
type Server struct {
	router     *gin.Engine
	config     *config.Config
	authSvc    core.AuthService
	snippetSvc core.SnippetService
	commentSvc core.CommentService
	flagSvc    core.FlagService
}

// NewServer creates a new HTTP server with all handlers
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	snippetSvc core.SnippetService,
	commentSvc core.CommentService,
	flagSvc core.FlagService,
) *Server {
	// Set Gin to release mode by default
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(RequestLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router:     router,
		config:     cfg,
		authSvc:    authSvc,
		snippetSvc: snippetSvc,
		commentSvc: commentSvc,
		flagSvc:    flagSvc,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Admin routes (requires admin role)
		admin := v1.Group("/admin", AuthMiddleware(s.authSvc), AdminMiddleware())
		{
			admin.PUT("/users/:id/role", s.updateUserRole)
		}

		// Snippet routes. Reads carry the optional identity so private
		// snippets resolve for their owners and vanish for everyone else.
		v1.GET("/snippets", s.listSnippets)
		v1.GET("/snippets/:id", OptionalAuthMiddleware(s.authSvc), s.getSnippet)

		protected := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protected.GET("/snippets/mine", s.listOwnSnippets)
			protected.POST("/snippets", s.createSnippet)
			protected.PUT("/snippets/:id", s.updateSnippet)
			protected.DELETE("/snippets/:id", s.deleteSnippet)
		}

		// Comment routes
		optional := v1.Group("", OptionalAuthMiddleware(s.authSvc))
		{
			optional.GET("/snippets/:id/comments", s.listComments)
			optional.GET("/comments/:id", s.getComment)

			// Flagging is open to anonymous callers
			optional.POST("/comments/:id/flags", s.flagComment)
			optional.DELETE("/comments/:id/flags", s.unflagComment)
		}

		protectedComments := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protectedComments.POST("/snippets/:id/comments", s.createComment)
			protectedComments.PUT("/comments/:id", s.updateComment)
			protectedComments.DELETE("/comments/:id", s.deleteComment)
		}

		// Moderation routes (role enforced by the flag service)
		moderation := v1.Group("/moderation", AuthMiddleware(s.authSvc))
		{
			moderation.GET("/flags", s.listFlags)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
