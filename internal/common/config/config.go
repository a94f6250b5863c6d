package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/amoylab/toolserver/pkg/helper"
	"github.com/amoylab/toolserver/pkg/trace"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// ToolServerConfig represents the configuration of the tool server
	ToolServerConfig struct {
		Port    int           `yaml:"port" toml:"port"`
		Logger  LoggerConfig  `yaml:"logger" toml:"logger"`
		RPC     RPCConfig     `yaml:"rpc" toml:"rpc"`
		CORS    *CORSConfig   `yaml:"cors,omitempty" toml:"cors"`
		Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
		Tracing trace.Config  `yaml:"tracing" toml:"tracing"`
		Storage StorageConfig `yaml:"storage" toml:"storage"`
		Cache   CacheConfig   `yaml:"cache" toml:"cache"`
		Tools   ToolsConfig   `yaml:"tools" toml:"tools"`
	}

	// RPCConfig controls the JSON-RPC endpoint
	RPCConfig struct {
		// SanitizeErrors drops the tool's own error text from -32000 responses
		SanitizeErrors bool `yaml:"sanitize_errors" toml:"sanitize_errors"`
		// CallTimeout bounds a single request, 0 means no limit
		CallTimeout time.Duration `yaml:"call_timeout" toml:"call_timeout"`
		// LogPayloads logs raw JSON request bodies at debug level
		LogPayloads bool `yaml:"log_payloads" toml:"log_payloads"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level" toml:"level"`             // debug, info, warn, error
		Format     string `yaml:"format" toml:"format"`           // json, console
		Output     string `yaml:"output" toml:"output"`           // stdout, file
		FilePath   string `yaml:"file_path" toml:"file_path"`     // path to log file when output is file
		MaxSize    int    `yaml:"max_size" toml:"max_size"`       // max size of log file in MB
		MaxBackups int    `yaml:"max_backups" toml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age" toml:"max_age"`         // max age of backup files in days
		Compress   bool   `yaml:"compress" toml:"compress"`       // whether to compress backup files
		Color      bool   `yaml:"color" toml:"color"`             // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace" toml:"stacktrace"`   // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone" toml:"time_zone"`     // e.g. "UTC", default is local
		TimeFormat string `yaml:"time_format" toml:"time_format"` // default is "2006-01-02 15:04:05"
	}

	CORSConfig struct {
		AllowOrigins     []string `yaml:"allowOrigins,omitempty" toml:"allowOrigins"`
		AllowMethods     []string `yaml:"allowMethods,omitempty" toml:"allowMethods"`
		AllowHeaders     []string `yaml:"allowHeaders,omitempty" toml:"allowHeaders"`
		ExposeHeaders    []string `yaml:"exposeHeaders,omitempty" toml:"exposeHeaders"`
		AllowCredentials bool     `yaml:"allowCredentials" toml:"allowCredentials"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled" toml:"enabled"`
		Path      string    `yaml:"path" toml:"path"`
		Namespace string    `yaml:"namespace" toml:"namespace"`
		Buckets   []float64 `yaml:"buckets" toml:"buckets"`
	}
)

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// LoadConfig loads configuration from a YAML or TOML file with environment
// variable support. The resolved file path is returned alongside.
func LoadConfig(filename string) (*ToolServerConfig, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	cfg, err := Parse(data, strings.ToLower(filepath.Ext(cfgPath)))
	if err != nil {
		return nil, cfgPath, err
	}
	return cfg, cfgPath, nil
}

// Parse decodes raw configuration content. ext selects the format, ".toml"
// for TOML and anything else for YAML.
func Parse(data []byte, ext string) (*ToolServerConfig, error) {
	data = resolveEnv(data)

	var cfg ToolServerConfig
	if ext == ".toml" {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveEnv replaces environment variable placeholders in config content
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := envPattern.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
