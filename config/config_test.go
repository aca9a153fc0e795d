package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "sports_ai_session", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Len(t, cfg.Plans, 3)
	assert.Equal(t, Unlimited, cfg.Plans[PlanEnterprise].MonthlyArticles)
	assert.False(t, cfg.Quota.Enforce)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", `
server:
  port: 9090
  mode: debug
database:
  dsn: "root:root@tcp(127.0.0.1:3306)/sports?parseTime=true"
session:
  secret: file-secret
  max_age: 24h
openai:
  api_key: sk-file
plans:
  free:
    name: Free
    monthly_articles: 3
    max_length: 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
	require.Contains(t, cfg.Plans, PlanFree)
	assert.Equal(t, 3, cfg.Plans[PlanFree].MonthlyArticles)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "server:\n  port: 1111\n")
	writeConfig(t, dir, "config.local.yaml", "server:\n  port: 2222\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2222, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("DATABASE_URL", "user:pass@tcp(db:3306)/sports")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "user:pass@tcp(db:3306)/sports", cfg.Database.DSN)
	assert.Equal(t, "env-secret", cfg.Session.Secret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	cfg.OpenAI.APIKey = "sk"
	cfg.Database.DSN = "dsn"
	err = cfg.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate_RejectsURLStyleDSN(t *testing.T) {
	cfg := &Config{
		OpenAI:   OpenAIConfig{APIKey: "sk"},
		Session:  SessionConfig{Secret: "secret"},
		Database: DatabaseConfig{DSN: "mysql://user:pass@db:3306/sports"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a URL")

	cfg.Database.DSN = "user:pass@tcp(db:3306)/sports?parseTime=true"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_QuotaEnforceFromEnv(t *testing.T) {
	t.Setenv("QUOTA_ENFORCE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Quota.Enforce)
}

func TestConfig_Plan_FallsBackToFree(t *testing.T) {
	cfg := &Config{Plans: DefaultPlans()}

	assert.Equal(t, "Pro", cfg.Plan(PlanPro).Name)
	assert.Equal(t, "Free", cfg.Plan("platinum").Name)
}

func TestGithubOAuthConfig_Enabled(t *testing.T) {
	assert.False(t, GithubOAuthConfig{}.Enabled())
	assert.False(t, GithubOAuthConfig{ClientID: "id"}.Enabled())
	assert.True(t, GithubOAuthConfig{ClientID: "id", ClientSecret: "secret"}.Enabled())
}
