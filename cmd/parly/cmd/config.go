package cmd

import (
	"parly-backend/lib/configutil"
	configlibsql "parly-backend/lib/configutil/libsql"
	"time"
)

const configFile = "parly.json5"

type Config struct {
	Database configlibsql.Struct `json:"database"`

	// RateLimitSeconds is slept between entities.
	RateLimitSeconds  float64 `json:"rate_limit_seconds" split_words:"true"`
	RequestsPerSecond float64 `json:"requests_per_second" split_words:"true"`
	MaxRetries        int     `json:"max_retries" split_words:"true"`
	TimeoutSeconds    int     `json:"timeout_seconds" split_words:"true"`
	UserAgent         string  `json:"user_agent" split_words:"true"`

	BatchSize int `json:"batch_size" split_words:"true"`
	Workers   int `json:"workers"`

	// CheckpointStore is either "file" (one file per job under
	// CheckpointDir) or "db" (the checkpoints table).
	CheckpointStore string `json:"checkpoint_store" split_words:"true"`
	CheckpointDir   string `json:"checkpoint_dir" split_words:"true"`

	RecentCron   string `json:"recent_cron" split_words:"true"`
	ProgressCron string `json:"progress_cron" split_words:"true"`

	// DumpDir receives request/response dumps when running with --verbose.
	DumpDir string `json:"dump_dir" split_words:"true"`
}

func defaultConfig() Config {
	return Config{
		Database:         configlibsql.Struct{File: "data/parliament.db"},
		RateLimitSeconds: 1,
		MaxRetries:       3,
		TimeoutSeconds:   30,
		BatchSize:        20,
		Workers:          3,
		CheckpointStore:  "file",
		CheckpointDir:    "data/checkpoints",
		RecentCron:       "0 */6 * * *",
		ProgressCron:     "30 3 * * *",
	}
}

func loadConfig(path string) (Config, error) {
	return configutil.Load(path, defaultConfig(), "PARLY")
}

func (c Config) rateLimit() time.Duration {
	return time.Duration(c.RateLimitSeconds * float64(time.Second))
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
