package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the public NoteHub API
const DefaultBaseURL = "https://notehub-public.goit.study/api"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Query   QueryConfig   `mapstructure:"query"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig holds the notes API connection settings
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

// QueryConfig tunes search and caching behaviour
type QueryConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	Retry      int           `mapstructure:"retry"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	StaleTime  time.Duration `mapstructure:"stale_time"` // 0 = revalidate on every key change
	GCTime     time.Duration `mapstructure:"gc_time"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"` // "dark" or "light", used by the preview renderer
	ShowPreview bool   `mapstructure:"show_preview"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// ServerConfig holds settings for the local development API server
type ServerConfig struct {
	Listen   string `mapstructure:"listen"`
	DBPath   string `mapstructure:"db_path"` // empty = in-memory
	Token    string `mapstructure:"token"`   // empty = no auth
	SeedFile string `mapstructure:"seed_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			Timeout:  15 * time.Second,
			PageSize: 12,
		},
		Query: QueryConfig{
			Debounce:   500 * time.Millisecond,
			Retry:      1,
			RetryDelay: time.Second,
			StaleTime:  0,
			GCTime:     5 * time.Minute,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.API,
		validation.Field(&c.API.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.API.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.API.PageSize, validation.Required, validation.Min(1), validation.Max(50)),
	); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := validation.ValidateStruct(&c.Query,
		validation.Field(&c.Query.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&c.Query.Retry, validation.Min(0), validation.Max(5)),
		validation.Field(&c.Query.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.Query.StaleTime, validation.Min(time.Duration(0))),
		validation.Field(&c.Query.GCTime, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := validation.ValidateStruct(&c.UI,
		validation.Field(&c.UI.Theme, validation.In("dark", "light")),
	); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("", "DEBUG", "INFO", "WARN", "WARNING", "ERROR",
			"debug", "info", "warn", "warning", "error")),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("must start with http:// or https://")
	}
	return nil
}

// IsConfigured returns true if an API token is set
func (c *Config) IsConfigured() bool {
	return c.API.Token != ""
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "notehub", "notehub.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "notehub", "notehub.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "notehub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "notehub")
	}
}

// Loader reads and writes the config file. A zero configFile searches the
// default config directory and the working directory.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a loader. configFile, when set, overrides the search path.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// NOTEHUB_API_TOKEN overrides api.token, and so on
	v.SetEnvPrefix("NOTEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	return &Loader{v: v, configFile: configFile}
}

// setDefaults registers every key so env overrides apply on Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.page_size", cfg.API.PageSize)

	v.SetDefault("query.debounce", cfg.Query.Debounce)
	v.SetDefault("query.retry", cfg.Query.Retry)
	v.SetDefault("query.retry_delay", cfg.Query.RetryDelay)
	v.SetDefault("query.stale_time", cfg.Query.StaleTime)
	v.SetDefault("query.gc_time", cfg.Query.GCTime)

	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.show_preview", cfg.UI.ShowPreview)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetDefault("server.listen", cfg.Server.Listen)
	v.SetDefault("server.db_path", cfg.Server.DBPath)
	v.SetDefault("server.token", cfg.Server.Token)
	v.SetDefault("server.seed_file", cfg.Server.SeedFile)
}

// Load reads the config file (if any), applies environment overrides and
// validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ConfigFileUsed returns the path of the file that was read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Save writes cfg to the config file, creating its directory
func (l *Loader) Save(cfg *Config) error {
	configFile := l.configFile
	if configFile == "" {
		configFile = l.v.ConfigFileUsed()
	}
	if configFile == "" {
		configFile = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	l.v.Set("api.base_url", cfg.API.BaseURL)
	l.v.Set("api.token", cfg.API.Token)
	l.v.Set("api.timeout", cfg.API.Timeout.String())
	l.v.Set("api.page_size", cfg.API.PageSize)

	l.v.Set("query.debounce", cfg.Query.Debounce.String())
	l.v.Set("query.retry", cfg.Query.Retry)
	l.v.Set("query.retry_delay", cfg.Query.RetryDelay.String())
	l.v.Set("query.stale_time", cfg.Query.StaleTime.String())
	l.v.Set("query.gc_time", cfg.Query.GCTime.String())

	l.v.Set("ui.theme", cfg.UI.Theme)
	l.v.Set("ui.show_preview", cfg.UI.ShowPreview)

	l.v.Set("logging.file", cfg.Logging.File)
	l.v.Set("logging.level", cfg.Logging.Level)

	l.v.Set("server.listen", cfg.Server.Listen)
	l.v.Set("server.db_path", cfg.Server.DBPath)
	l.v.Set("server.token", cfg.Server.Token)
	l.v.Set("server.seed_file", cfg.Server.SeedFile)

	if err := l.v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToken updates just the API token in the config file
func (l *Loader) SaveToken(token string) error {
	cfg, err := l.decode()
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.API.Token = token
	return l.Save(cfg)
}

// Watch re-reads the config file whenever it changes on disk and passes the
// new configuration to onChange. Invalid edits are reported through onError
// and otherwise ignored.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}
