package authclient_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/goliatone/go-authclient"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  authclient.Config
		wantErr bool
	}{
		{
			name: "valid",
			config: authclient.Config{
				BaseURL:     "https://api.example.com/v1",
				RefreshPath: "/auth/refresh",
			},
		},
		{
			name:    "missing base url",
			config:  authclient.Config{RefreshPath: "/auth/refresh"},
			wantErr: true,
		},
		{
			name: "base url not a url",
			config: authclient.Config{
				BaseURL:     "not a url",
				RefreshPath: "/auth/refresh",
			},
			wantErr: true,
		},
		{
			name:    "missing refresh path",
			config:  authclient.Config{BaseURL: "https://api.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := authclient.Config{BaseURL: "https://api.example.com"}.WithDefaults()
	assert.Equal(t, "/auth/refresh", cfg.RefreshPath)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)

	custom := authclient.Config{
		BaseURL:     "https://api.example.com",
		RefreshPath: "/v2/session/refresh",
		HTTPTimeout: time.Second,
	}.WithDefaults()
	assert.Equal(t, "/v2/session/refresh", custom.RefreshPath)
	assert.Equal(t, time.Second, custom.HTTPTimeout)
}

func TestConfigRefreshURL(t *testing.T) {
	cfg := authclient.Config{
		BaseURL:     "https://api.example.com/v1/",
		RefreshPath: "/auth/refresh",
	}
	assert.Equal(t, "https://api.example.com/v1/auth/refresh", cfg.RefreshURL())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTHCLIENT_BASE_URL", "https://api.example.com")
	t.Setenv("AUTHCLIENT_REFRESH_PATH", "/session/refresh")
	t.Setenv("AUTHCLIENT_HTTP_TIMEOUT_SECONDS", "30")

	cfg, err := authclient.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "/session/refresh", cfg.RefreshPath)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestConfigFromEnvRejectsBadTimeout(t *testing.T) {
	t.Setenv("AUTHCLIENT_BASE_URL", "https://api.example.com")
	t.Setenv("AUTHCLIENT_REFRESH_PATH", "/auth/refresh")
	t.Setenv("AUTHCLIENT_HTTP_TIMEOUT_SECONDS", "soon")

	_, err := authclient.ConfigFromEnv()
	assert.Error(t, err)
}
