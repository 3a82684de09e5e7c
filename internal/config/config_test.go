// internal/config/config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "firehose.status", cfg.Listener.Subject)
	assert.Equal(t, 30*24*time.Hour, cfg.Listener.MaxAuthorAge)
	assert.Equal(t, 1000, cfg.Listener.MaxAuthorFollowers)
	assert.Equal(t, 100, cfg.Listener.MaxAuthorStatuses)
	assert.Equal(t, 10, cfg.Listener.MaxTagAccounts)
	assert.Equal(t, 10, cfg.Listener.MaxTagUses)
	assert.InDelta(t, 0.5, cfg.Listener.SimilarityThreshold, 1e-9)
	assert.False(t, cfg.Listener.RecheckKnownTrends)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LISTENER_MAX_AUTHOR_FOLLOWERS", "50")
	t.Setenv("TREND_RECHECK_KNOWN", "true")
	t.Setenv("LISTENER_MAX_AUTHOR_AGE", "72h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Listener.MaxAuthorFollowers)
	assert.True(t, cfg.Listener.RecheckKnownTrends)
	assert.Equal(t, 72*time.Hour, cfg.Listener.MaxAuthorAge)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("LISTENER_SIMILARITY_THRESHOLD", "1.5")

	_, err := Load()
	assert.Error(t, err)
}
