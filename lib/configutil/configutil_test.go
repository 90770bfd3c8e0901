package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name      string  `json:"name"`
	BatchSize int     `json:"batch_size" split_words:"true"`
	RateLimit float64 `json:"rate_limit" split_words:"true"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "parly.json5"), `{
		// comments are allowed
		name: "base",
		batch_size: 10,
	}`)
	writeFile(t, filepath.Join(dir, "parly.local.json5"), `{ batch_size: 50 }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "parly.json5"))
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, 50, cfg.BatchSize)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nothing.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "parly.json5"), `{ batch_size: 25 }`)
	t.Setenv("PARLYTEST_RATE_LIMIT", "2.5")

	cfg, err := Load(
		filepath.Join(dir, "parly.json5"),
		testConfig{Name: "default", BatchSize: 10, RateLimit: 1},
		"parlytest",
	)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 25, cfg.BatchSize)
	require.Equal(t, 2.5, cfg.RateLimit)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(
		filepath.Join(t.TempDir(), "parly.json5"),
		testConfig{Name: "default", BatchSize: 10},
		"",
	)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "default", BatchSize: 10}, cfg)
}
