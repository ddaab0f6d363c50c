// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"DailyProgression"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Storage configuration
	// ============================================================
	// DatabaseURL selects the relational primary (postgres://... or
	// sqlite://...). Empty means file storage only.
	DatabaseURL  string `env:"DATABASE_URL"`
	DBMaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
	DataDir      string `env:"DATA_DIR" envDefault:"data"`

	// ============================================================
	// Redis configuration (optional primary when DATABASE_URL is empty)
	// ============================================================
	RedisHost      string `env:"REDIS_HOST"`
	RedisPort      string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"daily_progression:kv:"`

	// ============================================================
	// Event publishing
	// ============================================================
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"progression-events"`

	// ============================================================
	// Progression configuration
	// ============================================================
	Timezone             string        `env:"TIMEZONE" envDefault:"Europe/Warsaw"`
	ProgressionConfig    string        `env:"PROGRESSION_CONFIG_PATH" envDefault:"config/progression.yaml"`
	TasksPath            string        `env:"TASKS_PATH"`
	GuestCleanupInterval time.Duration `env:"GUEST_CLEANUP_INTERVAL" envDefault:"1h"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`

	// ============================================================
	// DEVELOPER: Add your custom configuration fields below
	// ============================================================
}
