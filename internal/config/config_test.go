package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultEndpointURL, c.Endpoint.URL)
	require.Equal(t, 3*time.Second, c.NotificationTTL)
	require.Equal(t, 8080, c.Port)
	require.False(t, c.Gmail.Enabled())
	require.Empty(t, c.DatabaseDSN)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APPLICATION_ENDPOINT_URL", "http://localhost:9999/exec")
	t.Setenv("NOTIFICATION_TTL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RECRUITER_EMAIL", "hiring@example.com")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9999/exec", c.Endpoint.URL)
	require.Equal(t, 250*time.Millisecond, c.NotificationTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	require.True(t, c.Gmail.Enabled())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("PORT=9191\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PORT") })

	n, err := LoadEnv([]string{file, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9191, c.Port)
}

func TestValidate_RejectsRelativeEndpoint(t *testing.T) {
	t.Setenv("APPLICATION_ENDPOINT_URL", "/exec")
	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be absolute")
}

func TestValidate_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("NOTIFICATION_TTL", "0s")
	_, err := Load()
	require.Error(t, err)
}
