package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Debounce, cfg.Debounce)
	assert.Equal(t, def.Retry, cfg.Retry)
	assert.Equal(t, def.RateLimit, cfg.RateLimit)
	assert.Empty(t, cfg.APIURL)
}

func TestLoadParsesFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api_url: https://crm.example.com/api
request_timeout: 10s
debounce: 300ms
retry:
  max_attempts: 5
  initial_delay: 250ms
store: /tmp/salesops-test.db
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://crm.example.com/api/", cfg.APIURL, "trailing slash is added")
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, "/tmp/salesops-test.db", cfg.Store)
	assert.True(t, cfg.Debug)
	assert.Equal(t, Default().Burst, cfg.Burst, "unset fields keep defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:8000/api/")
	t.Setenv(EnvDebug, "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/", cfg.APIURL)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unterminated"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.APIURL = "https://crm.example.com/api/"
	cfg.Debounce = 750 * time.Millisecond

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, loaded.APIURL)
	assert.Equal(t, cfg.Debounce, loaded.Debounce)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		apiURL  string
		wantErr bool
	}{
		{name: "https", apiURL: "https://crm.example.com/api/", wantErr: false},
		{name: "http localhost", apiURL: "http://localhost:8000/api/", wantErr: false},
		{name: "empty", apiURL: "", wantErr: true},
		{name: "relative", apiURL: "/api/", wantErr: true},
		{name: "wrong scheme", apiURL: "ftp://crm.example.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.APIURL = tt.apiURL
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	cfg.Store = "postgresql://sales@db:5432/salesops"
	assert.Equal(t, cfg.Store, cfg.StorePath())
	assert.True(t, IsPostgres(cfg.Store))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Store = "~/.config/salesops/salesops.db"
	assert.Equal(t, filepath.Join(home, ".config/salesops/salesops.db"), cfg.StorePath())
}
