package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetrows/internal/shared/testutil"
)

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", nil)
	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", logger)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status, "no checks means ready")

	hs.Register("config", func(context.Context) error { return nil })
	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	assert.Equal(t, "ready", status.Services["config"].Status)

	hs.Register("sheet", func(context.Context) error { return errors.New("spreadsheet id missing") })
	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "spreadsheet id missing", status.Services["sheet"].Message)
	assert.Equal(t, "ready", status.Services["config"].Status)
	assert.True(t, logs.ContainsMessage("readiness check failed"))
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", nil)
	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "uptime")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestHealthService_Version(t *testing.T) {
	v := NewHealthService("1.2.3", nil).Version()
	assert.Equal(t, "1.2.3", v["version"])
	for _, key := range []string{"api_version", "go_version", "os", "arch", "start_time"} {
		assert.Contains(t, v, key)
	}
}
