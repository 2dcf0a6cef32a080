/*
Package config manages the TOML config for wordgraph.

	[server]
	addr = ":5000"
	rate_limit = 50.0
	burst = 100
	max_limit = 64
	max_prefix = 60

	[engine]
	top_words = 3
	suggest_limit = 10

	[cli]
	placeholder = "None"
	color = true

A missing file is created with defaults. A file that fails to decode as a
whole is parsed section by section, so one bad value does not throw away the
rest.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/wordgraph/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the default config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has HTTP and IPC front end options.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	MaxLimit  int     `toml:"max_limit"`
	MaxPrefix int     `toml:"max_prefix"`
}

// EngineConfig holds text engine options.
type EngineConfig struct {
	TopWords     int `toml:"top_words"`
	SuggestLimit int `toml:"suggest_limit"`
}

// CliConfig holds chat loop options.
type CliConfig struct {
	Placeholder string `toml:"placeholder"`
	Color       bool   `toml:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":5000",
			RateLimit: 50,
			Burst:     100,
			MaxLimit:  64,
			MaxPrefix: 60,
		},
		Engine: EngineConfig{
			TopWords:     3,
			SuggestLimit: 10,
		},
		CLI: CliConfig{
			Placeholder: "None",
			Color:       true,
		},
	}
}

// Validate rejects values the front ends cannot work with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0, got %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be >= 1 when rate limiting, got %d", c.Server.Burst)
	}
	if c.Server.MaxLimit < 1 {
		return fmt.Errorf("server.max_limit must be >= 1, got %d", c.Server.MaxLimit)
	}
	if c.Server.MaxPrefix < 1 {
		return fmt.Errorf("server.max_prefix must be >= 1, got %d", c.Server.MaxPrefix)
	}
	if c.Engine.TopWords < 0 {
		return fmt.Errorf("engine.top_words must be >= 0, got %d", c.Engine.TopWords)
	}
	if c.Engine.SuggestLimit < 1 {
		return fmt.Errorf("engine.suggest_limit must be >= 1, got %d", c.Engine.SuggestLimit)
	}
	return nil
}

// DefaultPath returns the config path inside the platform config dir.
func DefaultPath() string {
	return utils.ResolveConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordgraph/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customPath string) (*Config, string) {
	if customPath != "" {
		if utils.FileExists(customPath) {
			cfg, err := LoadConfig(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customPath)
		}
	}

	defaultPath := DefaultPath()
	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep their
// defaults; invalid values fall back to defaults for their whole section.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		cfg, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Warnf("Invalid config in %s: %v. Using built-in defaults.", configPath, err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// tryPartialParse applies every key that decodes with the right type.
func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	sections, err := utils.ParseTOMLSections(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg, nil
	}

	if section, ok := utils.ExtractSection(sections, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(sections, "engine"); ok {
		extractEngineConfig(section, &cfg.Engine)
	}
	if section, ok := utils.ExtractSection(sections, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		server.Addr = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractInt(data, "burst"); ok {
		server.Burst = val
	}
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt(data, "top_words"); ok {
		engine.TopWords = val
	}
	if val, ok := utils.ExtractInt(data, "suggest_limit"); ok {
		engine.SuggestLimit = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "placeholder"); ok {
		cli.Placeholder = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
