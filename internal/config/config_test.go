package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/validation"
)

func isolate(t *testing.T) []Option {
	t.Helper()
	dir := t.TempDir()
	return []Option{WithSearchPaths(dir), WithEnvFile(filepath.Join(dir, ".env"))}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(isolate(t)...)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, 30*time.Second, cfg.LLM.OpenAI.Timeout)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Cache.BatchReports.TTL)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.Sweep)
	assert.Equal(t, "ko", cfg.I18n.DefaultLanguage)
	assert.False(t, cfg.Server.Production())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leadership.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  env: production
store:
  driver: sqlite
  dsn: file:test.db
analysis:
  workers: 4
  insight_timeout: 5s
validation:
  duplicate_window: 12h
`), 0o600))

	t.Setenv("LEADERSHIP_SERVER_ADDR", ":9100")
	t.Setenv("LEADERSHIP_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(WithFile(path), WithEnvFile(filepath.Join(dir, ".env")))
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.True(t, cfg.Server.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 5*time.Second, cfg.Analysis.InsightTimeout)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)

	applied := cfg.Validation.Apply(validation.DefaultConfig())
	assert.Equal(t, 12*time.Hour, applied.DuplicateWindow)
	assert.Equal(t, validation.DefaultConfig().FastCompletion, applied.FastCompletion)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEADERSHIP_I18N_DEFAULT_LANGUAGE=en\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LEADERSHIP_I18N_DEFAULT_LANGUAGE") })

	cfg, err := Load(WithSearchPaths(dir), WithEnvFile(envFile))
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.I18n.DefaultLanguage)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	opts := append(isolate(t), WithFile(filepath.Join(t.TempDir(), "nope.yaml")))
	_, err := Load(opts...)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(isolate(t)...)
	require.NoError(t, err)

	bad := cfg
	bad.Store = StoreConfig{Driver: DriverPostgres}
	assert.ErrorContains(t, bad.Validate(), "store.dsn")

	bad = cfg
	bad.Store.Driver = "oracle"
	assert.ErrorContains(t, bad.Validate(), "unknown store.driver")

	bad = cfg
	bad.Auth.Required = true
	assert.ErrorContains(t, bad.Validate(), "auth.secret")

	bad = cfg
	bad.I18n.DefaultLanguage = "fr"
	bad.LLM.DefaultProvider = "cohere"
	err = bad.Validate()
	assert.ErrorContains(t, err, "i18n.default_language")
	assert.ErrorContains(t, err, "llm.default_provider")
}
