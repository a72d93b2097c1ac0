package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "pomocoin/internal/platform/errors"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	HomePath   string
	DataDir    string
	ConfigPath string
	LogPath    string
	Storage    Storage
	Timer      Timer
	Notify     Notify
	Log        Log
}

type Storage struct {
	Driver      string
	DBPath      string
	FilePath    string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

type Timer struct {
	Focus        time.Duration
	ShortBreak   time.Duration
	LongBreak    time.Duration
	FocusAward   int
	PollInterval time.Duration
}

// Notify gates completion notifications. Disabled means the sink is a no-op.
type Notify struct {
	Enabled bool
	Bell    bool
}

type Log struct {
	Level  string
	Format string
}

// fileConfig mirrors config.yaml. Durations are whole seconds.
type fileConfig struct {
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
		Redis  struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"storage"`
	Timer struct {
		FocusSeconds      *int   `yaml:"focus_seconds"`
		ShortBreakSeconds *int   `yaml:"short_break_seconds"`
		LongBreakSeconds  *int   `yaml:"long_break_seconds"`
		FocusAward        *int   `yaml:"focus_award"`
		PollInterval      string `yaml:"poll_interval"`
	} `yaml:"timer"`
	Notify struct {
		Enabled *bool `yaml:"enabled"`
		Bell    *bool `yaml:"bell"`
	} `yaml:"notify"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config.yaml exists.
func Default(homePath string) Config {
	dataDir := filepath.Join(homePath, ".pomocoin")
	return Config{
		HomePath:   homePath,
		DataDir:    dataDir,
		ConfigPath: filepath.Join(dataDir, "config.yaml"),
		LogPath:    filepath.Join(dataDir, "pomocoin.log"),
		Storage: Storage{
			Driver:      DriverSQLite,
			DBPath:      filepath.Join(dataDir, "pomocoin.db"),
			FilePath:    filepath.Join(dataDir, "state.json"),
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "pomocoin:",
		},
		Timer: Timer{
			Focus:        1500 * time.Second,
			ShortBreak:   300 * time.Second,
			LongBreak:    1200 * time.Second,
			FocusAward:   1,
			PollInterval: time.Second,
		},
		Notify: Notify{Enabled: true, Bell: true},
		Log:    Log{Level: "info", Format: "text"},
	}
}

func New(homePath string) (Config, error) {
	if strings.TrimSpace(homePath) == "" {
		return Config{}, fmt.Errorf("home path is required: %w", apperrors.ErrInvalidInput)
	}
	return Default(homePath), nil
}

// Load reads <home>/.pomocoin/config.yaml on top of the defaults.
func Load(homePath string) (Config, error) {
	cfg, err := New(homePath)
	if err != nil {
		return Config{}, err
	}
	raw, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	parsed := fileConfig{}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(parsed); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(f fileConfig) error {
	if driver := strings.ToLower(strings.TrimSpace(f.Storage.Driver)); driver != "" {
		c.Storage.Driver = driver
	}
	if path := strings.TrimSpace(f.Storage.Path); path != "" {
		path = c.resolve(path)
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.FilePath = path
		default:
			c.Storage.DBPath = path
		}
	}
	if addr := strings.TrimSpace(f.Storage.Redis.Addr); addr != "" {
		c.Storage.RedisAddr = addr
	}
	c.Storage.RedisDB = f.Storage.Redis.DB
	if f.Storage.Redis.Prefix != "" {
		c.Storage.RedisPrefix = f.Storage.Redis.Prefix
	}

	if f.Timer.FocusSeconds != nil {
		c.Timer.Focus = time.Duration(*f.Timer.FocusSeconds) * time.Second
	}
	if f.Timer.ShortBreakSeconds != nil {
		c.Timer.ShortBreak = time.Duration(*f.Timer.ShortBreakSeconds) * time.Second
	}
	if f.Timer.LongBreakSeconds != nil {
		c.Timer.LongBreak = time.Duration(*f.Timer.LongBreakSeconds) * time.Second
	}
	if f.Timer.FocusAward != nil {
		c.Timer.FocusAward = *f.Timer.FocusAward
	}
	if interval := strings.TrimSpace(f.Timer.PollInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("timer.poll_interval %q: %w", interval, apperrors.ErrInvalidInput)
		}
		c.Timer.PollInterval = d
	}

	if f.Notify.Enabled != nil {
		c.Notify.Enabled = *f.Notify.Enabled
	}
	if f.Notify.Bell != nil {
		c.Notify.Bell = *f.Notify.Bell
	}

	if level := strings.TrimSpace(f.Log.Level); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	if format := strings.TrimSpace(f.Log.Format); format != "" {
		c.Log.Format = strings.ToLower(format)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver %q: %w", c.Storage.Driver, apperrors.ErrInvalidInput)
	}
	for name, d := range map[string]time.Duration{
		"focus_seconds":       c.Timer.Focus,
		"short_break_seconds": c.Timer.ShortBreak,
		"long_break_seconds":  c.Timer.LongBreak,
	} {
		if d < time.Second {
			return fmt.Errorf("timer.%s must be at least 1: %w", name, apperrors.ErrInvalidInput)
		}
	}
	if c.Timer.FocusAward < 0 {
		return fmt.Errorf("timer.focus_award must be non-negative: %w", apperrors.ErrInvalidInput)
	}
	if c.Timer.PollInterval <= 0 {
		return fmt.Errorf("timer.poll_interval must be positive: %w", apperrors.ErrInvalidInput)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q: %w", c.Log.Format, apperrors.ErrInvalidInput)
	}
	return nil
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
