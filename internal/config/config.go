// Package config provides YAML-based configuration for the intern registry and
// its diagnostics server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plc-visualizer/strintern/internal/intern"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Registry configuration
	Registry RegistryConfig `yaml:"registry"`

	// Advanced options
	Advanced AdvancedConfig `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// RegistryConfig contains interning settings
type RegistryConfig struct {
	Hasher          string `yaml:"hasher"`
	InitialCapacity int    `yaml:"initialCapacity"`
	PreloadFile     string `yaml:"preloadFile"`
	FeedBuffer      int    `yaml:"feedBuffer"`
}

// AdvancedConfig contains logging and metrics options
type AdvancedConfig struct {
	LogLevel             string `yaml:"logLevel"`
	LogFormat            string `yaml:"logFormat"`
	EnableRequestLogging bool   `yaml:"enableRequestLogging"`
	MetricsNamespace     string `yaml:"metricsNamespace"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "127.0.0.1",
			EnableCORS:   false,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "1M",
		},
		Registry: RegistryConfig{
			Hasher:          intern.DefaultHasher,
			InitialCapacity: 1024,
			PreloadFile:     "",
			FeedBuffer:      256,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "text",
			EnableRequestLogging: true,
			MetricsNamespace:     "strintern",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		return config, config.Validate()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset keys keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, config.Validate()
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# strintern configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at startup
func (c *AppConfig) Validate() error {
	if _, err := intern.HasherByName(c.Registry.Hasher); err != nil {
		return fmt.Errorf("invalid registry.hasher: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Registry.InitialCapacity < 0 {
		return fmt.Errorf("invalid registry.initialCapacity: %d", c.Registry.InitialCapacity)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if hasher := os.Getenv("STRINTERN_HASHER"); hasher != "" {
		c.Registry.Hasher = hasher
	}

	if level := os.Getenv("STRINTERN_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if preload := os.Getenv("STRINTERN_PRELOAD"); preload != "" {
		c.Registry.PreloadFile = preload
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Registry.PreloadFile != "" && !filepath.IsAbs(c.Registry.PreloadFile) {
		c.Registry.PreloadFile = filepath.Join(configDir, c.Registry.PreloadFile)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// RegistryOptions translates the registry section into intern options
func (c *AppConfig) RegistryOptions() ([]intern.Option, error) {
	h, err := intern.HasherByName(c.Registry.Hasher)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(c.Registry.Hasher)
	if name == "" {
		name = intern.DefaultHasher
	}
	return []intern.Option{
		intern.WithHasher(name, h),
		intern.WithCapacity(c.Registry.InitialCapacity),
	}, nil
}
