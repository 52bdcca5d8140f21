package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")

	t.Setenv("PARSER_MAX_FILE_SIZE", "1048576")
	t.Setenv("PARSER_TIMEOUT_SEC", "5")
	t.Setenv("PARSER_RULES_FILE", "/etc/questionnaire/rules.yaml")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, int64(1<<20), cfg.Parser.MaxFileSize)
	assert.Equal(t, 5*time.Second, cfg.Parser.Timeout())
	assert.Equal(t, "/etc/questionnaire/rules.yaml", cfg.Parser.RulesFile)
}

func TestLoad_ParserDefaults(t *testing.T) {
	t.Setenv("PARSER_MAX_FILE_SIZE", "")
	t.Setenv("PARSER_TIMEOUT_SEC", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, int64(25<<20), cfg.Parser.MaxFileSize)
	assert.Equal(t, 30*time.Second, cfg.Parser.Timeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLogConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, LogConfig{TZName: "Not/AZone"}.Location())
	assert.Equal(t, "Asia/Jakarta", LogConfig{TZName: "Asia/Jakarta"}.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	t.Setenv(key, "26214400")
	assert.Equal(t, int64(26214400), getEnvInt64(key, 0))

	t.Setenv(key, "lots")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))
}
