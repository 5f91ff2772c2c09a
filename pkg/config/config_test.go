package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 5*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 100, cfg.Query.MaxLimit)
	assert.Equal(t, 5, cfg.Dashboard.RecentLogs)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(50*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 30*time.Minute, cfg.Storage.SignedURLTTL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("QUERY_TIMEOUT", "soon")
	v.Set("QUERY_MAX_LIMIT", -4)
	v.Set("DASHBOARD_RECENT_LOGS", 0)

	cfg := fromViper(v)

	assert.Equal(t, 5*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 100, cfg.Query.MaxLimit)
	assert.Equal(t, 5, cfg.Dashboard.RecentLogs)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
