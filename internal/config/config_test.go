package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
jwt:
  signing_key: secret
ranking:
  tie_mode: dense
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "dense", cfg.Ranking.TieMode)
	assert.Equal(t, "keep", cfg.Membership.Reactivation)
	assert.False(t, cfg.Match.LockAfterClose)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "memory", cfg.State.Backend)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  signing_key: secret
`)
	t.Setenv("MATCH_LOCK_AFTER_CLOSE", "true")
	t.Setenv("DATABASE_POSTGRES_HOST", "db.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Match.LockAfterClose)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
}

func TestLoad_RejectsUnknownPolicies(t *testing.T) {
	path := writeConfig(t, `
jwt:
  signing_key: secret
membership:
  reactivation: sometimes
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "membership.reactivation")
}

func TestLoad_RequiresSigningKey(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt.signing_key")
}

func TestPostgresConfig_URL(t *testing.T) {
	c := PostgresConfig{Host: "h", Port: 5432, User: "u", Password: "p", DB: "rachas", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/rachas?sslmode=disable", c.URL())
	assert.Contains(t, c.DSN(), "dbname=rachas")
}
