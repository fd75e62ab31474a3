package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const maxDeriveWorkers = 64

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Benchmark tables. Empty paths select the embedded PGA Tour tables.
	BenchmarkFile string
	BenchmarkCSV  string
	PuttingCSV    string

	LastShotPolicy insights.LastShotPolicy
	DeriveWorkers  int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	policy, err := insights.ParseLastShotPolicy(os.Getenv("STROKES_GAINED_LAST_SHOT"))
	if err != nil {
		return nil, fmt.Errorf("invalid STROKES_GAINED_LAST_SHOT: %w", err)
	}

	workers, err := parseDeriveWorkers()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-shot-batches"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "shot-insights"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "shot-insights-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		BenchmarkFile: os.Getenv("BENCHMARK_FILE"),
		BenchmarkCSV:  os.Getenv("BENCHMARK_CSV"),
		PuttingCSV:    os.Getenv("PUTTING_CSV"),

		LastShotPolicy: policy,
		DeriveWorkers:  workers,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if (cfg.BenchmarkCSV == "") != (cfg.PuttingCSV == "") {
		return nil, errors.New("BENCHMARK_CSV and PUTTING_CSV must be set together")
	}
	if cfg.BenchmarkFile != "" && cfg.BenchmarkCSV != "" {
		return nil, errors.New("BENCHMARK_FILE and BENCHMARK_CSV are mutually exclusive")
	}

	return cfg, nil
}

func parseDeriveWorkers() (int, error) {
	s := os.Getenv("DERIVE_WORKERS")
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxDeriveWorkers {
		return 0, fmt.Errorf("invalid DERIVE_WORKERS %q: must be 1-%d", s, maxDeriveWorkers)
	}
	return n, nil
}
