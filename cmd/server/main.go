package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codebin/internal/core"
	httpProtocol "codebin/internal/protocols/http"
	"codebin/internal/repository"
	"codebin/pkg/cache"
	"codebin/pkg/config"
	"codebin/pkg/database"
	"codebin/pkg/logger"
)

func main() {
	configPath := os.Getenv("CODEBIN_CONFIG")
	if configPath == "" {
		configPath = "./configs/development.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting codebin server...")

	dbConfig := database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime.Std(),
		Timeout:         cfg.Database.Timeout.Std(),
	}

	// Apply the schema before serving when asked to (fresh deployments)
	if schemaPath := os.Getenv("CODEBIN_INIT_SCHEMA"); schemaPath != "" {
		if err := applySchema(dbConfig, schemaPath); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Infof("Applied schema from %s", schemaPath)
	}

	// Connect to database
	pool, err := database.NewPGXPool(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger.Info("Connected to PostgreSQL database")

	// Optional Redis cache for snippet visibility lookups
	var snippetCache cache.Cache
	if cfg.Redis.Enabled {
		snippetCache, err = cache.NewRedis(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL.Std(),
		})
		if err != nil {
			logger.Warnf("Redis unavailable, running without cache: %v", err)
			snippetCache = cache.NewNoop()
		} else {
			logger.Info("Connected to Redis cache")
			defer snippetCache.Close()
		}
	} else {
		snippetCache = cache.NewNoop()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	snippetRepo := repository.NewSnippetRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	flagRepo := repository.NewFlagRepository(pool)

	// Initialize core services
	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration.Std())
	snippetSvc := core.NewSnippetService(snippetRepo, snippetCache)
	commentSvc := core.NewCommentService(commentRepo, snippetSvc, cfg.Comments.MaxPageSize)
	flagSvc := core.NewFlagService(flagRepo, commentSvc)

	logger.Info("Initialized all core services")

	httpServer := httpProtocol.NewServer(cfg, authSvc, snippetSvc, commentSvc, flagSvc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: httpServer.Router(),
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

// applySchema runs the DDL in the given file against the configured database.
// Uses the database/sql path so multi-statement scripts execute as-is.
func applySchema(cfg database.Config, path string) error {
	ddl, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(string(ddl)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
