// Package config loads the service's JSON configuration via viper, with
// defaults matching every optional field in the spec, and the store
// credentials/endpoints sourced from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds every render/job-engine tunable, all optional with defaults.
type Config struct {
	Samples                     int     `mapstructure:"samples"`
	IterPerSample               int     `mapstructure:"iter_per_sample"`
	TransformationMinWeight     float64 `mapstructure:"transformation_min_weight"`
	TransformationMaxWeight     float64 `mapstructure:"transformation_max_weight"`
	MaxThreads                  int     `mapstructure:"max_threads"`
	JobTTLSecs                  int     `mapstructure:"job_ttl_secs"`
	ProgressSyncIntervalMs      int     `mapstructure:"progress_sync_interval_ms"`
	IntermediateImageIntervalMs int     `mapstructure:"intermediate_image_interval_ms"`
	SSEPollIntervalMs           int     `mapstructure:"sse_poll_interval_ms"`
	PreviewSize                 int     `mapstructure:"preview_size"`
	PreviewSamples              int     `mapstructure:"preview_samples"`
	PreviewIter                 int     `mapstructure:"preview_iter"`
}

func defaultMaxThreads() int {
	if p := runtime.GOMAXPROCS(0); p > 0 {
		return p
	}
	return 8
}

// applyDefaults registers every default named in the spec's config table.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("samples", 100_000)
	v.SetDefault("iter_per_sample", 100)
	v.SetDefault("transformation_min_weight", 0.1)
	v.SetDefault("transformation_max_weight", 1.0)
	v.SetDefault("max_threads", defaultMaxThreads())
	v.SetDefault("job_ttl_secs", 3600)
	v.SetDefault("progress_sync_interval_ms", 100)
	v.SetDefault("intermediate_image_interval_ms", 100)
	v.SetDefault("sse_poll_interval_ms", 100)
	v.SetDefault("preview_size", 128)
	v.SetDefault("preview_samples", 80_000)
	v.SetDefault("preview_iter", 150)
}

// Load reads configuration from the CONFIG_PATH env var (or "config.json" in
// the working directory), falling back to built-in defaults when no file is
// present — every field is optional, so a missing file is not fatal. A
// present-but-malformed file is fatal, matching the spec's Config.Parse
// error class.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.json"
	}

	v := viper.New()
	applyDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		// optional file absent: defaults stand
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if cfg.MaxThreads <= 0 {
		cfg.MaxThreads = defaultMaxThreads()
	}
	return cfg, nil
}

// AppPort returns the HTTP listen port, from APP_PORT or the default.
func AppPort() string {
	if p := os.Getenv("APP_PORT"); p != "" {
		return p
	}
	return "8080"
}

// StoreConfig carries the blob store and KV store endpoints/credentials,
// sourced entirely from the environment. An empty Addr/Endpoint means "no
// networked backend configured" and callers should fall back to the
// in-memory store implementations.
type StoreConfig struct {
	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
	BlobRegion    string

	KVAddr     string
	KVPassword string
	KVDB       int
}

// LoadStoreConfig reads blob/KV settings from BLOB_* and KV_* env vars.
func LoadStoreConfig() StoreConfig {
	kvDB, _ := strconv.Atoi(os.Getenv("KV_DB")) // unset or malformed: DB 0
	return StoreConfig{
		BlobEndpoint:  os.Getenv("BLOB_ENDPOINT"),
		BlobAccessKey: os.Getenv("BLOB_ACCESS_KEY"),
		BlobSecretKey: os.Getenv("BLOB_SECRET_KEY"),
		BlobBucket:    envOr("BLOB_BUCKET", "fractal-flame"),
		BlobRegion:    envOr("BLOB_REGION", "us-east-1"),
		KVAddr:        os.Getenv("KV_ADDR"),
		KVPassword:    os.Getenv("KV_PASSWORD"),
		KVDB:          kvDB,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
