package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/odorlab/odormap/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input files.
	ReadingsCSV        string
	RegionsGeoJSON     string
	BarnsGeoJSON       string
	RegionNameProperty string

	// Aggregation scope.
	TargetMonth  domain.MonthConfig
	ExcludeDates []domain.CalendarDate
	DefaultHour  int

	SnapshotCacheSize int

	// Optional Kafka snapshot export.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from the environment, applying defaults
// where unset. A .env file in the working directory is folded in first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	targetMonth, err := parseTargetMonth()
	if err != nil {
		return nil, err
	}

	excludeDates, err := parseExcludeDates()
	if err != nil {
		return nil, err
	}

	defaultHour, err := parseIntInRange("DEFAULT_HOUR", 12, 0, 23)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseIntInRange("SNAPSHOT_CACHE_SIZE", 64, 1, 1<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ReadingsCSV:        envOrDefault("READINGS_CSV", "data/odor.csv"),
		RegionsGeoJSON:     envOrDefault("REGIONS_GEOJSON", "data/regions.geojson"),
		BarnsGeoJSON:       envOrDefault("BARNS_GEOJSON", "data/barns.geojson"),
		RegionNameProperty: envOrDefault("REGION_NAME_PROPERTY", "LI_KOR_NM"),

		TargetMonth:  targetMonth,
		ExcludeDates: excludeDates,
		DefaultHour:  defaultHour,

		SnapshotCacheSize: cacheSize,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: envOrDefault("KAFKA_SNAPSHOT_TOPIC", "odor-map-snapshots"),
	}

	if cfg.ReadingsCSV == "" {
		return nil, errors.New("READINGS_CSV is required")
	}
	if cfg.RegionsGeoJSON == "" {
		return nil, errors.New("REGIONS_GEOJSON is required")
	}
	if cfg.RegionNameProperty == "" {
		return nil, errors.New("REGION_NAME_PROPERTY is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SNAPSHOT_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer in %d..%d", key, lo, hi)
	}
	return n, nil
}

func parseTargetMonth() (domain.MonthConfig, error) {
	year, err := parseIntInRange("TARGET_YEAR", 2025, 2000, 2200)
	if err != nil {
		return domain.MonthConfig{}, err
	}
	month, err := parseIntInRange("TARGET_MONTH", 10, 1, 12)
	if err != nil {
		return domain.MonthConfig{}, err
	}
	return domain.MonthConfig{Year: year, Month: time.Month(month)}, nil
}

func parseExcludeDates() ([]domain.CalendarDate, error) {
	raw := envOrDefault("EXCLUDE_DATES", "2025-09-30")
	var dates []domain.CalendarDate
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := domain.ParseCalendarDate(part)
		if err != nil {
			return nil, fmt.Errorf("invalid EXCLUDE_DATES entry %q", part)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
