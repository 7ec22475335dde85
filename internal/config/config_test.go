package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOUDAO_SEAL_SECRET", "LOUDAO_STORAGE_DRIVER", "LOUDAO_DB_PASSWORD",
		"LOUDAO_MINIO_ACCESS_KEY", "LOUDAO_MINIO_SECRET_KEY", "LOUDAO_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  corsOrigins: ["https://loudao.example"]
storage:
  driver: postgres
  database:
    host: db
    port: 5432
    user: loudao
    name: loudao
ledger:
  mode: memory
  allowLocalOnly: false
validation:
  maxYear: 2026
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://loudao.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Ledger.Mode)
	assert.False(t, cfg.Ledger.AllowLocalOnly)
	assert.Equal(t, 2020, cfg.Validation.MinYear)
	assert.Equal(t, 2026, cfg.Validation.MaxYear)
	assert.Equal(t, "memory", cfg.Vault.Driver)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LOUDAO_SEAL_SECRET":    "from-env-secret-value",
		"LOUDAO_STORAGE_DRIVER": "mysql",
		"LOUDAO_DB_PASSWORD":    "pw",
		"PORT":                  "9000",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "from-env-secret-value", cfg.Seal.Secret)
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, "pw", cfg.Storage.Database.Password)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	cfg.Ledger.Mode = "chain"
	cfg.Validation.MinYear = 2030
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "ledger.mode")
	assert.Contains(t, err.Error(), "minYear")
}

func TestDSNs(t *testing.T) {
	cfg := Default()
	cfg.Storage.Database = Database{Host: "h", Port: 1, User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "u:p@tcp(h:1)/n?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", cfg.PostgresDSN())
}
