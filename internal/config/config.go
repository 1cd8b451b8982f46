// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

// Config holds every runtime setting of the page engine and its server.
type Config struct {
	Port      string
	SiteURL   string
	DataDir   string
	ExportDir string
	LogDir    string
	DebugMode bool

	// DimensionsFile overrides the embedded dimension config when set.
	DimensionsFile string

	// LinkSeed seeds internal link sampling; 0 derives a seed from the clock.
	LinkSeed int64

	ManifestCacheSize int
	ManifestCacheTTL  time.Duration

	// GlobalKeywordDedup drops batch pages whose primary keyword is owned by
	// an earlier route of the manifest, not just an earlier page of the window.
	GlobalKeywordDedup bool

	// SitemapExcludeSkipped runs the content-depth gate while projecting the
	// sitemap so thin pages are not advertised.
	SitemapExcludeSkipped bool

	// ServePrerendered serves /p/*slug from the export directory when it holds
	// an export of the current manifest.
	ServePrerendered bool

	// BatchRateLimit is the number of batch requests allowed per client per minute.
	BatchRateLimit int

	// AdminTokenSecret signs operator tokens. When empty, endpoints with
	// side effects such as POST /api/export are open.
	AdminTokenSecret string
	AdminTokenTTL    time.Duration
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		SiteURL:               strings.TrimRight(getEnv("SITE_URL", "https://solidwrite.com"), "/"),
		DataDir:               getEnvPath("DATA_DIR", "data"),
		ExportDir:             getEnv("EXPORT_DIR", "data/export"),
		LogDir:                getEnvPath("LOG_DIR", "logs"),
		DebugMode:             getEnvBool("DEBUG_MODE", false),
		DimensionsFile:        getEnv("DIMENSIONS_FILE", ""),
		ManifestCacheSize:     getEnvInt("MANIFEST_CACHE_SIZE", 8),
		ManifestCacheTTL:      getEnvDuration("MANIFEST_CACHE_TTL", 10*time.Minute),
		GlobalKeywordDedup:    getEnvBool("GLOBAL_KEYWORD_DEDUP", false),
		SitemapExcludeSkipped: getEnvBool("SITEMAP_EXCLUDE_SKIPPED", false),
		ServePrerendered:      getEnvBool("SERVE_PRERENDERED", true),
		BatchRateLimit:        getEnvInt("BATCH_RATE_LIMIT", 60),
		AdminTokenSecret:      getEnv("ADMIN_TOKEN_SECRET", ""),
		AdminTokenTTL:         getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
	}

	seed, err := strconv.ParseInt(getEnv("LINK_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LINK_SEED: %w", err)
	}
	cfg.LinkSeed = seed

	if cfg.AdminTokenSecret != "" && len(cfg.AdminTokenSecret) < 16 {
		return nil, fmt.Errorf("ADMIN_TOKEN_SECRET must be at least 16 characters")
	}

	if cfg.DimensionsFile != "" {
		if _, err := os.Stat(cfg.DimensionsFile); err != nil {
			return nil, fmt.Errorf("dimensions file %s: %w", cfg.DimensionsFile, err)
		}
	}

	return cfg, nil
}

// getEnv returns the variable or defaultValue when unset.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath returns a directory path and makes sure it exists.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// InitConfig loads the configuration and installs it as the current one.
func InitConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetCurrentConfig(cfg)
	return nil
}

// SetCurrentConfig replaces the current configuration.
func SetCurrentConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	currentConfig = cfg
}

// GetCurrentConfig returns a copy of the current configuration, loading it
// from the environment if nothing was installed yet.
func GetCurrentConfig() *Config {
	configMutex.RLock()
	cfg := currentConfig
	configMutex.RUnlock()

	if cfg == nil {
		loaded, err := Load()
		if err != nil {
			loaded = &Config{Port: "8080", SiteURL: "https://solidwrite.com", ManifestCacheSize: 8, ManifestCacheTTL: 10 * time.Minute}
		}
		return loaded
	}

	configCopy := *cfg
	return &configCopy
}
