package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "https://ngxgroup.com", config.Clients.NGX.BaseURL)
	assert.Equal(t, "https://doclib.ngxgroup.com/REST/api", config.Clients.NGX.DoclibURL)
	assert.Equal(t, "https://afx.kwayisi.org", config.Clients.Kwayisi.BaseURL)
	assert.Equal(t, "5m", config.Market.CacheTTL)
	assert.False(t, config.Reports.ScheduleEnabled)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ngxd.toml")
	content := `
environment = "production"

[server]
port = 9090

[clients.ngx]
base_url = "https://staging.example.com"
timeout = "10s"

[market]
cache_ttl = "90s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "https://staging.example.com", config.Clients.NGX.BaseURL)
	assert.Equal(t, 10*time.Second, config.Clients.NGX.GetTimeout())
	assert.Equal(t, 90*time.Second, config.Market.GetCacheTTL())
	// Unset fields keep defaults
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "https://afx.kwayisi.org", config.Clients.Kwayisi.BaseURL)
	assert.True(t, config.IsProduction())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("environment = ["), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NGXD_ENV", "production")
	t.Setenv("NGXD_PORT", "3000")
	t.Setenv("NGXD_NGX_BASE_URL", "http://localhost:8081")
	t.Setenv("NGXD_MIRROR_BASE_URL", "http://localhost:8082")
	t.Setenv("NGXD_CACHE_TTL", "30s")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "http://localhost:8081", config.Clients.NGX.BaseURL)
	assert.Equal(t, "http://localhost:8082", config.Clients.Kwayisi.BaseURL)
	assert.Equal(t, 30*time.Second, config.Market.GetCacheTTL())
}

func TestLoadConfig_InvalidEnvPortIgnored(t *testing.T) {
	t.Setenv("NGXD_PORT", "not-a-port")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestDurationFallbacks(t *testing.T) {
	ngx := NGXConfig{Timeout: "garbage"}
	assert.Equal(t, 30*time.Second, ngx.GetTimeout())

	market := MarketConfig{CacheTTL: ""}
	assert.Equal(t, 5*time.Minute, market.GetCacheTTL())

	reports := ReportsConfig{ScheduleInterval: "soon"}
	assert.Equal(t, 24*time.Hour, reports.GetScheduleInterval())
}
