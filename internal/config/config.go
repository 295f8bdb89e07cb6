// Package config loads runtime settings for the CLI: a YAML (or JSON) file,
// an optional .env file, then AUTHFORM_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	Locale    string    `json:"locale" yaml:"locale"`
	Storage   Storage   `json:"storage" yaml:"storage"`
	Timing    Timing    `json:"timing" yaml:"timing"`
	Redirects Redirects `json:"redirects" yaml:"redirects"`
	Log       Log       `json:"log" yaml:"log"`
}

// Storage selects and configures the durable key-value store.
type Storage struct {
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path" yaml:"path"`
	Redis  Redis  `json:"redis" yaml:"redis"`
}

// Redis configures the redis store driver.
type Redis struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// Timing holds the fixed delays of the submission flows.
type Timing struct {
	SubmitDelay         Duration `json:"submitDelay" yaml:"submitDelay"`
	NotificationTTL     Duration `json:"notificationTTL" yaml:"notificationTTL"`
	LoginRedirectDelay  Duration `json:"loginRedirectDelay" yaml:"loginRedirectDelay"`
	SignupRedirectDelay Duration `json:"signupRedirectDelay" yaml:"signupRedirectDelay"`
	SocialDelay         Duration `json:"socialDelay" yaml:"socialDelay"`
}

// Redirects are the post-success destinations.
type Redirects struct {
	Login  string `json:"login" yaml:"login"`
	Signup string `json:"signup" yaml:"signup"`
}

// Log configures the logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Duration accepts Go duration strings ("1500ms") or integer milliseconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	return d.parse(raw)
}

func (d *Duration) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration matching the stock pages.
func Default() Config {
	return Config{
		Locale: "en",
		Storage: Storage{
			Driver: DriverFile,
			Path:   ".authform/storage.json",
			Redis:  Redis{Addr: "localhost:6379", Prefix: "authform:"},
		},
		Timing: Timing{
			SubmitDelay:         Duration(2000 * time.Millisecond),
			NotificationTTL:     Duration(3000 * time.Millisecond),
			LoginRedirectDelay:  Duration(1500 * time.Millisecond),
			SignupRedirectDelay: Duration(2000 * time.Millisecond),
			SocialDelay:         Duration(1500 * time.Millisecond),
		},
		Redirects: Redirects{
			Login:  "/dashboard.html",
			Signup: "index.html",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads path (when non-empty) over the defaults, loads envFile (when it
// exists) into the process environment, then applies env overrides. A
// missing config file is an error; a missing env file is not.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := parse(data, path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env %s: %w", envFile, err)
		}
	}

	applyEnv(&cfg, os.Getenv)
	cfg.Storage.Driver = NormalizeDriver(cfg.Storage.Driver)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(data []byte, source string, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("config: file %s is empty", source)
	}
	if strings.HasSuffix(strings.ToLower(source), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", source, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", source, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set("AUTHFORM_LOCALE", &cfg.Locale)
	set("AUTHFORM_STORAGE_DRIVER", &cfg.Storage.Driver)
	set("AUTHFORM_STORAGE_PATH", &cfg.Storage.Path)
	set("AUTHFORM_REDIS_ADDR", &cfg.Storage.Redis.Addr)
	set("AUTHFORM_REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	set("AUTHFORM_LOG_LEVEL", &cfg.Log.Level)
	set("AUTHFORM_LOG_FORMAT", &cfg.Log.Format)
	if v := strings.TrimSpace(getenv("AUTHFORM_REDIS_DB")); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Redis.DB = db
		}
	}
}

// NormalizeDriver lowercases and trims a driver name. An empty name selects
// the memory driver, matching storage.Open.
func NormalizeDriver(raw string) string {
	driver := strings.ToLower(strings.TrimSpace(raw))
	if driver == "" {
		return DriverMemory
	}
	return driver
}

// Validate checks driver-specific requirements.
func (c Config) Validate() error {
	switch NormalizeDriver(c.Storage.Driver) {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.New("config: storage.path is required for the file driver")
		}
	case DriverRedis:
		if strings.TrimSpace(c.Storage.Redis.Addr) == "" {
			return errors.New("config: storage.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
