package main

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// envOrDefault returns the environment variable or def when unset
func envOrDefault(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// GetConfigPath returns the service config path: flag, then
// REPORT_CACHE_CONFIG_FILE, then the default
func GetConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	return envOrDefault("REPORT_CACHE_CONFIG_FILE", "/app/report_cache.yaml")
}

// GetRulesPath returns the cache rules path: flag, then
// REPORT_CACHE_RULES_FILE, then the default
func GetRulesPath(flag string) string {
	if flag != "" {
		return flag
	}
	return envOrDefault("REPORT_CACHE_RULES_FILE", "/app/cache_rules.yaml")
}

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. KEYDB_URL environment variable
// 2. CACHE_KEYDB_URL_FILE file content
// 3. Default value
func GetKeyDBURL(logger *zap.Logger) string {
	// Priority 1: Environment variable
	if keydbURL := os.Getenv("KEYDB_URL"); keydbURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return keydbURL
	}

	// Priority 2: Configurable connection file path
	connectionFile := envOrDefault("CACHE_KEYDB_URL_FILE", "/app/.keydb-url")
	if content, err := os.ReadFile(connectionFile); err == nil {
		keydbURL := strings.TrimSpace(string(content))
		if len(keydbURL) > 0 {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found or empty", zap.String("file", connectionFile))
	}

	// Priority 3: Default
	logger.Debug("Using default KeyDB URL")
	return "redis://keydb:6379"
}
