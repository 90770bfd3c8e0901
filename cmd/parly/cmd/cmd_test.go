package cmd

import (
	"os"
	"parly-backend/internal/jobs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parly.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// tuned for a slow link
		batch_size: 5,
		rate_limit_seconds: 2.5,
		database: {file: "other.db"},
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parly.local.json5"), []byte(`{workers: 8}`), 0644))
	t.Setenv("PARLY_CHECKPOINT_STORE", "db")

	config, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, config.BatchSize)
	require.Equal(t, 8, config.Workers)
	require.Equal(t, "other.db", config.Database.File)
	require.Equal(t, "db", config.CheckpointStore)
	require.Equal(t, 2500*time.Millisecond, config.rateLimit())
	// untouched defaults
	require.Equal(t, 3, config.MaxRetries)
	require.Equal(t, 30*time.Second, config.timeout())
	require.Equal(t, "0 */6 * * *", config.RecentCron)
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "parly.json5"))
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), config)
}

func TestCommands(t *testing.T) {
	for _, def := range jobs.Definitions() {
		if def.Name == jobs.MembersHtmlJobName {
			continue
		}
		found, _, err := rootCmd.Find([]string{def.Name})
		require.NoError(t, err)
		require.Equal(t, def.Name, found.Name())
		require.Equal(t, def.Pool, found.Flags().Lookup("workers") != nil, def.Name)
	}

	members, _, err := rootCmd.Find([]string{jobs.MembersJobName})
	require.NoError(t, err)
	require.NotNil(t, members.Flags().Lookup("html"))

	for _, path := range [][]string{
		{"senators", "import"},
		{"checkpoint", "show"},
		{"checkpoint", "clear"},
		{"stats"},
		{"daemon"},
		{"ingest"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestCheckpointJob(t *testing.T) {
	require.NoError(t, checkpointJob(jobs.RolesJobName))
	require.Error(t, checkpointJob("nope"))
}
