package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Telegram  Telegram  `yaml:"telegram"`
	Providers Providers `yaml:"providers"`
	Batch     Batch     `yaml:"batch"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
}

type Telegram struct {
	BotTokenEnv string `yaml:"bot_token_env"`
	ChannelID   string `yaml:"channel_id"`
	AdminChatID string `yaml:"admin_chat_id"`
}

type Providers struct {
	Pexels    Provider `yaml:"pexels"`
	Unsplash  Provider `yaml:"unsplash"`
	Wallhaven Provider `yaml:"wallhaven"`
}

type Provider struct {
	Enabled   bool   `yaml:"enabled"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type Batch struct {
	PerBatch         int `yaml:"per_batch"`
	IntervalHours    int `yaml:"interval_hours"`
	SendDelaySeconds int `yaml:"send_delay_seconds"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
	TmpDir  string `yaml:"tmp_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConfigDir returns the XDG config directory for wallcast.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "wallcast")
}

// DataDir returns the XDG data directory for wallcast.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "wallcast")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/wallcast/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'wallcast init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file. A .env file in the working
// directory is loaded first so api_key_env lookups can resolve without
// exporting anything.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Telegram: Telegram{
			BotTokenEnv: "TELEGRAM_BOT_TOKEN",
		},
		Providers: Providers{
			Pexels:    Provider{Enabled: true, APIKeyEnv: "PEXELS_API_KEY"},
			Unsplash:  Provider{Enabled: true, APIKeyEnv: "UNSPLASH_ACCESS_KEY"},
			Wallhaven: Provider{Enabled: true, APIKeyEnv: "WALLHAVEN_API_KEY"},
		},
		Batch: Batch{
			PerBatch:         3,
			IntervalHours:    6,
			SendDelaySeconds: 2,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings outside the ranges the scheduler and the
// Telegram rate limits can tolerate.
func (c *Config) Validate() error {
	if c.Telegram.ChannelID == "" {
		return fmt.Errorf("telegram.channel_id is required")
	}
	if c.Batch.PerBatch < 1 || c.Batch.PerBatch > 10 {
		return fmt.Errorf("batch.per_batch must be between 1 and 10, got %d", c.Batch.PerBatch)
	}
	if c.Batch.IntervalHours < 1 || c.Batch.IntervalHours > 24 {
		return fmt.Errorf("batch.interval_hours must be between 1 and 24, got %d", c.Batch.IntervalHours)
	}
	if c.Batch.SendDelaySeconds < 1 || c.Batch.SendDelaySeconds > 300 {
		return fmt.Errorf("batch.send_delay_seconds must be between 1 and 300, got %d", c.Batch.SendDelaySeconds)
	}
	return nil
}

// BotToken resolves the Telegram bot token from the configured
// environment variable.
func (c *Config) BotToken() (string, error) {
	token := os.Getenv(c.Telegram.BotTokenEnv)
	if token == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Telegram.BotTokenEnv)
	}
	return token, nil
}

// ProviderKey returns the API key for a source, or "" when the source
// is disabled or its key is unset.
func (c *Config) ProviderKey(src wallpaper.Source) string {
	var p Provider
	switch src {
	case wallpaper.SourcePexels:
		p = c.Providers.Pexels
	case wallpaper.SourceUnsplash:
		p = c.Providers.Unsplash
	case wallpaper.SourceWallhaven:
		p = c.Providers.Wallhaven
	default:
		return ""
	}
	if !p.Enabled {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// ProviderEnabled reports whether a source is switched on in config.
func (c *Config) ProviderEnabled(src wallpaper.Source) bool {
	switch src {
	case wallpaper.SourcePexels:
		return c.Providers.Pexels.Enabled
	case wallpaper.SourceUnsplash:
		return c.Providers.Unsplash.Enabled
	case wallpaper.SourceWallhaven:
		return c.Providers.Wallhaven.Enabled
	}
	return false
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetTmpDir returns the scratch directory for downloads.
func (c *Config) GetTmpDir() string {
	if c.Output.TmpDir != "" {
		return c.Output.TmpDir
	}
	return os.TempDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
