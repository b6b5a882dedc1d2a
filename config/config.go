package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Map           MapConfig
	Tiles         TilesConfig
	Geo           GeoConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MapConfig holds provider catalog and POI source configuration.
// Empty paths select the built-in defaults.
type MapConfig struct {
	CatalogPath string
	POIPath     string
	DefaultLat  float64
	DefaultLon  float64
	DefaultZoom int
}

// TilesConfig holds tile proxy and fallback controller configuration
type TilesConfig struct {
	SettleDelay       time.Duration
	RevertRedrawDelay time.Duration
	StatusClearDelay  time.Duration

	MemCacheSize int
	MemCacheTTL  time.Duration
	DiskCacheDir string // empty disables the persistent cache
	DiskCacheTTL time.Duration

	UpstreamTimeout time.Duration
	UserAgent       string
}

// GeoConfig holds geolocation configuration. An empty endpoint disables
// the locate call.
type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Map: MapConfig{
			CatalogPath: getEnv("MAP_CATALOG_PATH", ""),
			POIPath:     getEnv("MAP_POI_PATH", ""),
			DefaultLat:  getEnvAsFloat("MAP_DEFAULT_LAT", 37.7749),
			DefaultLon:  getEnvAsFloat("MAP_DEFAULT_LON", -122.4194),
			DefaultZoom: getEnvAsInt("MAP_DEFAULT_ZOOM", 13),
		},
		Tiles: TilesConfig{
			SettleDelay:       getEnvAsDuration("TILES_SETTLE_DELAY", 150*time.Millisecond),
			RevertRedrawDelay: getEnvAsDuration("TILES_REVERT_REDRAW_DELAY", 300*time.Millisecond),
			StatusClearDelay:  getEnvAsDuration("TILES_STATUS_CLEAR_DELAY", 3500*time.Millisecond),
			MemCacheSize:      getEnvAsInt("TILES_MEM_CACHE_SIZE", 2048),
			MemCacheTTL:       getEnvAsDuration("TILES_MEM_CACHE_TTL", 15*time.Minute),
			DiskCacheDir:      getEnv("TILES_DISK_CACHE_DIR", ""),
			DiskCacheTTL:      getEnvAsDuration("TILES_DISK_CACHE_TTL", 24*time.Hour),
			UpstreamTimeout:   getEnvAsDuration("TILES_UPSTREAM_TIMEOUT", 10*time.Second),
			UserAgent:         getEnv("TILES_USER_AGENT", "poimap/1.0 (+https://github.com/geoview/poimap)"),
		},
		Geo: GeoConfig{
			Endpoint: getEnv("GEO_ENDPOINT", ""),
			Timeout:  getEnvAsDuration("GEO_TIMEOUT", 5*time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 {
		return fmt.Errorf("default latitude %v out of range", c.Map.DefaultLat)
	}
	if c.Map.DefaultLon < -180 || c.Map.DefaultLon > 180 {
		return fmt.Errorf("default longitude %v out of range", c.Map.DefaultLon)
	}
	if c.Map.DefaultZoom < 0 || c.Map.DefaultZoom > 22 {
		return fmt.Errorf("default zoom %d out of range", c.Map.DefaultZoom)
	}

	if c.Tiles.SettleDelay <= 0 || c.Tiles.RevertRedrawDelay <= 0 || c.Tiles.StatusClearDelay <= 0 {
		return fmt.Errorf("tile controller delays must be positive")
	}
	if c.Tiles.MemCacheSize <= 0 {
		return fmt.Errorf("tile memory cache size must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
