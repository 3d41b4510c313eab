package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/textcanon/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  driver: sqlite
  sqlitePath: /tmp/canon.db
  memcachedAddr: localhost:11211
ledger:
  revisionScope: language
normalization:
  Arab:
    ",": "،"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Server.Driver)
	assert.Equal(t, "/tmp/canon.db", cfg.Server.SQLitePath)
	assert.Equal(t, ":8000", cfg.Server.Listen, "defaults survive")
	assert.Equal(t, domain.RevisionScopeLanguage, cfg.Ledger.Scope())
	assert.Equal(t, "،", cfg.Normalization["Arab"][","])
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  driver: mysql\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "ledger:\n  revisionScope: global\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, domain.RevisionScopeContent, cfg.Ledger.Scope())
}
