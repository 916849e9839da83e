package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[graph]
uri = "bolt://graph:7687"
user = "neo4j"
password = "secret"

[server]
port = "9090"

[proxy]
backend = "memory"
popular_tables_limit = 25
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, "neo4j", cfg.Graph.User)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Proxy.Backend)
	assert.Equal(t, 25, cfg.Proxy.PopularTablesLimit)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[graph]
uri = "bolt://graph:7687"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "neo4j", cfg.Proxy.Backend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does/not/exist.toml")
	assert.Error(t, err)
}
