package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "quoter.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "@daily", cfg.Jobs.ExpirySchedule)
	assert.Equal(t, 30, cfg.Quotes.DefaultValidDays)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("QUOTER_SERVER_PORT", "9090")
	t.Setenv("QUOTER_DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://localhost/quoter")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/quoter", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.driver", "oracle")
	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("database.driver", "postgres")
	v.Set("database.url", "")
	t.Setenv("DATABASE_URL", "")
	_, err = fromViper(v)
	assert.Error(t, err)

	v.Set("database.driver", "sqlite")
	v.Set("rate_limit.burst", 0)
	_, err = fromViper(v)
	assert.Error(t, err)
}
