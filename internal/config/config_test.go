package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasSaneBudgets(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.CrawlDepth)
	require.NoError(t, cfg.Budgets.Validate())
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("TUPISEC_HTTP_TIMEOUT_SECONDS", "30")
	t.Setenv("TUPISEC_CRAWL_DEPTH", "3")
	t.Setenv("NVD_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.CrawlDepth)
	assert.Equal(t, "test-key", cfg.NVDAPIKey)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tupisec-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("crawlDepth: 5\nnvdApiKey: from-yaml\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := Load(f.Name())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.CrawlDepth)
	assert.Equal(t, "from-yaml", cfg.NVDAPIKey)
}

func TestLoadIgnoresMissingYAMLFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().CrawlDepth, cfg.CrawlDepth)
}
