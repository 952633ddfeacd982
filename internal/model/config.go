package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds the backend connection settings.
type APIConfig struct {
	// BaseURL is the root of the REST API (e.g., http://localhost:5000/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single request. Zero keeps the transport default.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RatePerSec and Burst throttle outgoing requests.
	RatePerSec float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
	Burst      int     `mapstructure:"burst" yaml:"burst"`
}

// PollConfig controls notification polling.
type PollConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// UserConfig is the profile provisioned when the backend has no users.
type UserConfig struct {
	Username string `mapstructure:"username" yaml:"username"`
	Email    string `mapstructure:"email" yaml:"email"`
}

// PrintConfig controls the printable document.
type PrintConfig struct {
	Dir   string `mapstructure:"dir" yaml:"dir"`
	Title string `mapstructure:"title" yaml:"title"`
}

// StoreConfig locates the local ledger database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	NoticeSec int `mapstructure:"notice_sec" yaml:"notice_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	User    UserConfig    `mapstructure:"user" yaml:"user"`
	Print   PrintConfig   `mapstructure:"print" yaml:"print"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ConfigDir returns ~/.config/todoclient, falling back to the working
// directory when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoclient")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:5000/api",
			RatePerSec: 10,
			Burst:      20,
		},
		Poll: PollConfig{IntervalSec: 30},
		User: UserConfig{
			Username: "workshop_user",
			Email:    "workshop@example.com",
		},
		Print: PrintConfig{
			Dir:   filepath.Join(dir, "print"),
			Title: "Todos",
		},
		Store:   StoreConfig{Path: filepath.Join(dir, "ledger.db")},
		Log:     LogConfig{File: filepath.Join(dir, "todo.log"), Level: "info"},
		Display: DisplayConfig{NoticeSec: 3},
	}
}

// setDefaults registers every default so missing keys resolve sensibly and
// environment overrides (TODO_API_BASE_URL, ...) are recognized.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("api.rate_per_sec", d.API.RatePerSec)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("poll.interval_sec", d.Poll.IntervalSec)
	v.SetDefault("user.username", d.User.Username)
	v.SetDefault("user.email", d.User.Email)
	v.SetDefault("print.dir", d.Print.Dir)
	v.SetDefault("print.title", d.Print.Title)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("display.notice_sec", d.Display.NoticeSec)
}

// NewViper returns a viper instance preconfigured with defaults and
// TODO_-prefixed environment overrides. Callers may bind flags to it
// before passing it to LoadConfigWith.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) apply.
func LoadConfig(path string) (*AppConfig, error) {
	return LoadConfigWith(NewViper(), path)
}

// LoadConfigWith reads path into v and unmarshals the merged result.
func LoadConfigWith(v *viper.Viper, path string) (*AppConfig, error) {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Poll.IntervalSec <= 0 {
		cfg.Poll.IntervalSec = 30
	}
	if cfg.Display.NoticeSec <= 0 {
		cfg.Display.NoticeSec = 3
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("poll", cfg.Poll)
	v.Set("user", cfg.User)
	v.Set("print", cfg.Print)
	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
