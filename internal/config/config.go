package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Raster  RasterConfig
	Storage StorageConfig
	Worker  WorkerConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// RasterConfig holds the PDF rendering policy. Scale multiplies the 72 DPI page size,
// Quality is the JPEG quality in (0, 1].
type RasterConfig struct {
	Scale   float64
	Quality float64
}

type StorageConfig struct {
	MaxFileSize int64
	MaxFiles    int
}

type WorkerConfig struct {
	Concurrency  int
	RunRetention time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	DefaultRasterScale   = 1.5
	DefaultRasterQuality = 0.9
	DefaultGeminiModel   = "gemini-2.5-flash"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", DefaultGeminiModel),
		},
		Raster: RasterConfig{
			Scale:   getEnvAsFloat("RASTER_SCALE", DefaultRasterScale),
			Quality: getEnvAsFloat("RASTER_QUALITY", DefaultRasterQuality),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 20971520),
			MaxFiles:    getEnvAsInt("MAX_FILES", 20),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 1),
			RunRetention: getEnvAsDuration("RUN_RETENTION", "1h"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if c.Raster.Scale <= 0 {
		return fmt.Errorf("RASTER_SCALE must be positive, got %v", c.Raster.Scale)
	}
	if c.Raster.Quality <= 0 || c.Raster.Quality > 1 {
		return fmt.Errorf("RASTER_QUALITY must be in (0, 1], got %v", c.Raster.Quality)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.Worker.Concurrency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
