package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string // "redis" (default) | "memory" (single node, tests/dev)

	CatalogFile    string        // path to the article catalog YAML (optional, empty = catalog disabled)
	ReloadInterval time.Duration // interval to reload the catalog file (default: 1h)

	DefaultUserID string // identity the auth provider resolves to when no session is bound (optional)

	EnrichEnabled   bool          // fetch OpenGraph metadata for upserts with missing fields
	EnrichTimeout   time.Duration // per-fetch timeout for enrichment (default: 3s)
	EnrichUserAgent string        // User-Agent sent when fetching article pages

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)

	AllowedHosts []string // optional, restrict access to specific Host headers
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int // token bucket burst for mutation endpoints
	RateLimitPerMin int // refill per IP per minute for mutation endpoints
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEWSCLIP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEWSCLIP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NEWSCLIP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEWSCLIP_PRETTY_LOG", true),

		// Storage backend
		StoreBackend: getenv("NEWSCLIP_STORE_BACKEND", "redis"),

		// Article catalog
		CatalogFile:    getenv("NEWSCLIP_CATALOG_FILE", ""), // Optional, empty = catalog disabled
		ReloadInterval: mustDuration("NEWSCLIP_RELOAD_INTERVAL", time.Hour),

		// Identity
		DefaultUserID: getenv("NEWSCLIP_DEFAULT_USER_ID", ""),

		// Metadata enrichment
		EnrichEnabled:   mustBool("NEWSCLIP_ENRICH_ENABLED", false),
		EnrichTimeout:   mustDuration("NEWSCLIP_ENRICH_TIMEOUT", 3*time.Second),
		EnrichUserAgent: getenv("NEWSCLIP_ENRICH_USER_AGENT", "newsclip-bot/0.1"),

		// Access control
		AllowedHosts: getenvSlice("NEWSCLIP_ALLOWED_HOSTS"),
		TrustProxy:   mustBool("NEWSCLIP_TRUST_PROXY", false),

		// Rate limiting
		RateLimitBurst:  getenvInt("NEWSCLIP_RATE_LIMIT_BURST", 20),
		RateLimitPerMin: getenvInt("NEWSCLIP_RATE_LIMIT_PER_MIN", 60),
	}

	switch cfg.StoreBackend {
	case "redis":
		cfg.RedisAddr = requireEnv("NEWSCLIP_REDIS_ADDR")
		cfg.RedisUser = getenv("NEWSCLIP_REDIS_USERNAME", "default")
		cfg.RedisPassword = getenv("NEWSCLIP_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("NEWSCLIP_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	case "memory":
		// No remote store; everything lives in process memory.
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown store backend %q (want redis or memory)", cfg.StoreBackend))
	}

	if mustBool("NEWSCLIP_DEBUG_CONFIG", false) {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvSlice(key string) []string {
	return splitAndTrim(os.Getenv(key))
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
