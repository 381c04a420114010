package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trade-report-engine/internal/types"
)

type Config struct {
	Parser struct {
		FallbackMode string `yaml:"fallback_mode"`
	} `yaml:"parser"`
	Scoring struct {
		ModeCaps map[string]float64 `yaml:"mode_caps"`
	} `yaml:"scoring"`
	Server struct {
		Port         int      `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	MarketData struct {
		BaseURL        string `yaml:"base_url"`
		Symbol         string `yaml:"symbol"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		APIKeyEnv      string `yaml:"api_key_env"`
	} `yaml:"market_data"`
}

var validModes = map[string]bool{
	string(types.ModeGreen):  true,
	string(types.ModeYellow): true,
	string(types.ModeOrange): true,
	string(types.ModeRed):    true,
}

func (c *Config) Validate() error {
	if !validModes[c.Parser.FallbackMode] {
		return fmt.Errorf("invalid parser.fallback_mode '%s': must be GREEN, YELLOW, ORANGE or RED", c.Parser.FallbackMode)
	}
	for mode, cap := range c.Scoring.ModeCaps {
		if !validModes[mode] {
			return fmt.Errorf("invalid scoring.mode_caps key '%s'", mode)
		}
		if cap <= 0 || cap > 100 {
			return fmt.Errorf("scoring.mode_caps[%s] must be between 0-100, got %.2f", mode, cap)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}
	return nil
}

// FallbackMode returns the configured parser fallback as a typed mode.
func (c *Config) FallbackMode() types.Mode {
	return types.Mode(c.Parser.FallbackMode)
}

// ModeCaps returns the configured cap table, or nil when the defaults apply.
func (c *Config) ModeCaps() map[types.Mode]float64 {
	if len(c.Scoring.ModeCaps) == 0 {
		return nil
	}
	caps := make(map[types.Mode]float64, len(c.Scoring.ModeCaps))
	for mode, cap := range c.Scoring.ModeCaps {
		caps[types.Mode(mode)] = cap
	}
	return caps
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Parser.FallbackMode == "" {
		c.Parser.FallbackMode = string(types.ModeYellow)
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/reports.db"
	}
	if c.MarketData.TimeoutSeconds == 0 {
		c.MarketData.TimeoutSeconds = 10
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
