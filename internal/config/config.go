package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	AI struct {
		APIKey            string  `koanf:"api_key"`
		Model             string  `koanf:"model"`
		Temperature       float64 `koanf:"temperature"`
		MaxTokens         int     `koanf:"max_tokens"`
		RequestsPerMinute int     `koanf:"requests_per_minute"`
	} `koanf:"ai"`

	Story struct {
		TickIntervalMs int `koanf:"tick_interval_ms"`
	} `koanf:"story"`
}

// LoadConfig loads the configuration from defaults, an optional TOML file and
// MARKETSNAP_ environment variables, in that order of precedence (later wins).
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Defaults
	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":            8888,
		"ai.model":               "gemini-2.5-flash",
		"ai.temperature":         0.7,
		"ai.max_tokens":          256,
		"ai.requests_per_minute": 30,
		"story.tick_interval_ms": 30,
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./marketsnap.toml", "$HOME/.marketsnap.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Environment variables with prefix MARKETSNAP_. A double underscore
	// separates nesting levels so keys like ai.api_key stay addressable:
	// MARKETSNAP_AI__API_KEY -> ai.api_key
	k.Load(env.Provider("MARKETSNAP_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "MARKETSNAP_"))
		return strings.Replace(s, "__", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# MarketSnap Configuration

[server]
port = 8888

[ai]
# Leave api_key empty to run with canned placeholder text.
api_key = ""
model = "gemini-2.5-flash"
temperature = 0.7
max_tokens = 256
requests_per_minute = 30

[story]
# One progress unit per tick; a story completes after 100 ticks.
tick_interval_ms = 30
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration. A missing API key is valid: the app
// degrades to fixed placeholder text instead of failing.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", config.Server.Port)
	}

	if config.AI.Model == "" {
		return fmt.Errorf("ai model is required")
	}

	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature must be between 0 and 2, got %v", config.AI.Temperature)
	}

	if config.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai max_tokens must be positive, got %d", config.AI.MaxTokens)
	}

	if config.AI.RequestsPerMinute <= 0 {
		return fmt.Errorf("ai requests_per_minute must be positive, got %d", config.AI.RequestsPerMinute)
	}

	if config.Story.TickIntervalMs <= 0 {
		return fmt.Errorf("story tick_interval_ms must be positive, got %d", config.Story.TickIntervalMs)
	}

	return nil
}
