package stringpool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigLoader loads pool configuration from files and environment
// variables. Values merge in order: defaults, then the first config file
// found, then environment overrides.
type ConfigLoader struct {
	envPrefix   string
	configPaths []string
}

// NewConfigLoader creates a loader with the default search paths and the
// STRINGPOOL_ environment prefix.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		envPrefix:   "STRINGPOOL_",
		configPaths: getDefaultConfigPaths(),
	}
}

// getDefaultConfigPaths returns default configuration file paths to check
func getDefaultConfigPaths() []string {
	return []string{
		"stringpool.yaml",
		"stringpool.yml",
		"stringpool.json",
		"/etc/stringpool/config.yaml",
		"/etc/stringpool/config.json",
	}
}

// Load assembles configuration from all sources and validates the result.
func (l *ConfigLoader) Load() (*Config, error) {
	config := CreateConfig()

	fileConfig, err := l.LoadFromFile()
	if err != nil {
		return nil, err
	}
	if fileConfig != nil {
		config = fileConfig
	}

	l.LoadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadFromFile loads configuration from the first existing path. With no
// arguments the default paths are searched, preceded by the file named in
// STRINGPOOL_CONFIG_FILE when set. A missing file is not an error; the
// caller falls back to defaults.
func (l *ConfigLoader) LoadFromFile(paths ...string) (*Config, error) {
	searchPaths := paths
	if len(searchPaths) == 0 {
		searchPaths = l.configPaths
	}

	if envPath := os.Getenv(l.envPrefix + "CONFIG_FILE"); envPath != "" {
		searchPaths = append([]string{envPath}, searchPaths...)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return l.loadFile(path)
		}
	}
	return nil, nil
}

// loadFile parses a specific configuration file over defaults, so fields
// the file leaves out keep their default values.
func (l *ConfigLoader) loadFile(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid config path: potential path traversal detected in %s", path)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	config := CreateConfig()
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	return config, nil
}

// LoadFromEnv applies environment overrides to config in place.
func (l *ConfigLoader) LoadFromEnv(config *Config) {
	l.loadEnvInt(&config.GCThreshold, "GC_THRESHOLD")
	l.loadEnvInt(&config.GCIntervalMs, "GC_INTERVAL_MS")
	l.loadEnvBool(&config.AutoCollect, "AUTO_COLLECT")
	l.loadEnvInt(&config.AutoCollectIntervalMs, "AUTO_COLLECT_INTERVAL_MS")
	l.loadEnvString(&config.LogLevel, "LOG_LEVEL")
}

// Helper methods for environment variable loading

func (l *ConfigLoader) loadEnvString(target *string, key string) {
	if value := os.Getenv(l.envPrefix + key); value != "" {
		*target = value
	}
}

func (l *ConfigLoader) loadEnvBool(target *bool, key string) {
	if value := os.Getenv(l.envPrefix + key); value != "" {
		*target = strings.ToLower(value) == "true" || value == "1"
	}
}

func (l *ConfigLoader) loadEnvInt(target *int, key string) {
	if value := os.Getenv(l.envPrefix + key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			*target = i
		}
	}
}
