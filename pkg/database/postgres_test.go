package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		User:            "codebin",
		Password:        "codebin_dev_password",
		Database:        "codebin_dev",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		Timeout:         10 * time.Second,
	}
}

func TestNewDB(t *testing.T) {
	db, err := NewDB(devConfig())
	if err != nil {
		t.Skipf("Skipping test: PostgreSQL not available: %v", err)
		return
	}
	defer db.Close()

	ctx := context.Background()
	err = db.HealthCheck(ctx)
	require.NoError(t, err)

	stats := db.Stats()
	assert.GreaterOrEqual(t, stats.MaxOpenConnections, 5)
}

func TestHealthCheck(t *testing.T) {
	db, err := NewDB(devConfig())
	if err != nil {
		t.Skipf("Skipping test: PostgreSQL not available: %v", err)
		return
	}
	defer db.Close()

	err = db.HealthCheck(context.Background())
	assert.NoError(t, err)

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	err = db.HealthCheck(cancelCtx)
	assert.Error(t, err)
}

func TestConfigDSN(t *testing.T) {
	cfg := devConfig()
	assert.Contains(t, cfg.URL(), "postgres://codebin:")
	assert.Contains(t, cfg.URL(), "sslmode=disable")
	assert.Contains(t, cfg.keywordDSN(), "dbname=codebin_dev")
}
