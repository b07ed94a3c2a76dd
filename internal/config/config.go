// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/usestring/fergun/pkg/jsoncompact"
	"github.com/usestring/fergun/pkg/wolfram"
)

// Command defaults
const (
	DefaultQueryTimeoutMs     = 20000
	DefaultPaginatorTimeoutMs = 10 * 60 * 1000
	DefaultLanguageValue      = "en"
)

// Autocomplete cache defaults
const (
	DefaultAutocompleteCacheMaxItems = 1024
	DefaultAutocompleteCacheTTLMs    = 5 * 60 * 1000
)

// Config holds all configuration for the bot and the MCP server.
type Config struct {
	DiscordToken   string // DISCORD_TOKEN, required by the bot
	DiscordGuildID string // DISCORD_GUILD_ID, default "" (global commands)

	WolframResultsURL      string        // WOLFRAM_RESULTS_URL, default wolfram.DefaultResultsURL
	WolframAutocompleteURL string        // WOLFRAM_AUTOCOMPLETE_URL, default wolfram.DefaultAutocompleteURL
	WolframUserAgent       string        // WOLFRAM_USER_AGENT, default wolfram.DefaultUserAgent
	HTTPClientTimeout      time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)
	QueryTimeout           time.Duration // QUERY_TIMEOUT_MS, default 20000ms (20s)
	DefaultLanguage        string        // DEFAULT_LANGUAGE, default "en"

	AutocompleteCacheMaxItems int           // AUTOCOMPLETE_CACHE_MAX_ITEMS, default 1024
	AutocompleteCacheTTL      time.Duration // AUTOCOMPLETE_CACHE_TTL_MS, default 5m

	PaginatorTimeout  time.Duration // PAGINATOR_TIMEOUT_MS, default 10m
	CommandRatePerSec float64       // COMMAND_RATE_PER_SEC, default 0.5
	CommandBurst      int           // COMMAND_BURST, default 3

	// Compaction defaults for jq selections
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		DiscordToken:   getEnvString("DISCORD_TOKEN", ""),
		DiscordGuildID: getEnvString("DISCORD_GUILD_ID", ""),

		WolframResultsURL:      getEnvString("WOLFRAM_RESULTS_URL", wolfram.DefaultResultsURL),
		WolframAutocompleteURL: getEnvString("WOLFRAM_AUTOCOMPLETE_URL", wolfram.DefaultAutocompleteURL),
		WolframUserAgent:       getEnvString("WOLFRAM_USER_AGENT", wolfram.DefaultUserAgent),
		HTTPClientTimeout:      getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),
		QueryTimeout:           getEnvDurationMs("QUERY_TIMEOUT_MS", DefaultQueryTimeoutMs),
		DefaultLanguage:        getEnvString("DEFAULT_LANGUAGE", DefaultLanguageValue),

		AutocompleteCacheMaxItems: getEnvInt("AUTOCOMPLETE_CACHE_MAX_ITEMS", DefaultAutocompleteCacheMaxItems),
		AutocompleteCacheTTL:      getEnvDurationMs("AUTOCOMPLETE_CACHE_TTL_MS", DefaultAutocompleteCacheTTLMs),

		PaginatorTimeout:  getEnvDurationMs("PAGINATOR_TIMEOUT_MS", DefaultPaginatorTimeoutMs),
		CommandRatePerSec: getEnvFloat("COMMAND_RATE_PER_SEC", 0.5),
		CommandBurst:      getEnvInt("COMMAND_BURST", 3),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// CompactOptions returns the jsoncompact options derived from the config.
func (c *Config) CompactOptions() jsoncompact.Options {
	return jsoncompact.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
		OmitKeys:      jsoncompact.DefaultOmitKeys,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
