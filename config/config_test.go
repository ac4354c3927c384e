package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
mode: release
database:
  driver: postgres
  host: db.local
auth:
  encryption_key: "00"
cors:
  allow_origins: ["https://a.example"]
`), 0o600))

	t.Setenv("RECRUIT_DATABASE_HOST", "db.override")
	t.Setenv("RECRUIT_AUTH_VERIFY_ATTEMPTS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, ModeRelease, cfg.Mode)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, "db.override", cfg.Database.Host)
	require.Equal(t, 3, cfg.Auth.VerifyAttempts)
	require.Equal(t, 600, cfg.Auth.VerifyWindowSeconds)
	require.Equal(t, []string{"https://a.example"}, cfg.Cors.AllowOrigins)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestUnknownModeFallsBackToDebug(t *testing.T) {
	t.Setenv("RECRUIT_MODE", "staging")
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeDebug, cfg.Mode)
	require.Equal(t, "8080", cfg.Port)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
