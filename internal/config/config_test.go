package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")
	t.Setenv(portEnv, "")
	t.Setenv(storeDriverEnv, "")
	t.Setenv(hfAPIKeyEnv, "")
	t.Setenv(mongoURIEnv, "")

	cfg := Load()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, 30*time.Second, cfg.ML.SummaryTimeout)
	assert.Equal(t, 10*time.Second, cfg.ML.SentimentTimeout)
	assert.Empty(t, cfg.ML.APIKey)

	sources := cfg.DomainSources()
	require.Len(t, sources, 5)
	for _, s := range sources {
		assert.True(t, s.Active, s.Name)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")
	t.Setenv(portEnv, "8080")
	t.Setenv(storeDriverEnv, "Postgres")
	t.Setenv(databaseDSNEnv, "postgres://u:p@db:5432/news")
	t.Setenv(hfAPIKeyEnv, "hf_secret")
	t.Setenv(mongoURIEnv, "mongodb://mongo:27017")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/news", cfg.Store.PostgresDSN)
	assert.Equal(t, "hf_secret", cfg.ML.APIKey)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Store.MongoURI)
}

func TestLoadInvalidPortKeepsDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")
	t.Setenv(portEnv, "not-a-port")

	cfg := Load()
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	raw := `
server:
  port: 7000
ml:
  summaryTimeout: 5s
feeds:
  hoursBack: 48
sources:
  - name: Custom Feed
    url: https://example.org/feed.xml
  - name: Disabled Feed
    url: https://example.org/off.xml
    active: false
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(portEnv, "")

	cfg := Load()

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.ML.SummaryTimeout)
	assert.Equal(t, 10*time.Second, cfg.ML.SentimentTimeout)
	assert.Equal(t, 48, cfg.Feeds.HoursBack)

	sources := cfg.DomainSources()
	require.Len(t, sources, 2)
	assert.True(t, sources[0].Active)
	assert.False(t, sources[1].Active)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGODB_DATABASE=from_dotenv\n"), 0o600))
	t.Setenv(configPathEnv, "")
	t.Setenv(mongoDatabaseEnv, "")
	os.Unsetenv(mongoDatabaseEnv)

	cfg := Load()
	assert.Equal(t, "from_dotenv", cfg.Store.MongoDatabase)
}
