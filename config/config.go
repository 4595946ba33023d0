package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/eir"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for eir.
type Config struct {
	Server ServerConfig      `mapstructure:"server" yaml:"server"`
	Cache  CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig         `mapstructure:"log" yaml:"log"`
	Script ScriptConfig      `mapstructure:"script" yaml:"script"`
	Admin  AdminConfig       `mapstructure:"admin" yaml:"admin"`
	MIME   map[string]string `mapstructure:"mime" yaml:"mime,omitempty"`
}

// ServerConfig holds listener and document root configuration.
type ServerConfig struct {
	IP             string `mapstructure:"ip" yaml:"ip" validate:"required,ip"`
	Port           int    `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
	RootDir        string `mapstructure:"root_dir" yaml:"root_dir" validate:"required,dir"`
	OffAddress     string `mapstructure:"off_address" yaml:"off_address" validate:"required,startswith=/"`
	HTTPVersion    string `mapstructure:"http_version" yaml:"http_version" validate:"required"`
	RecvBufferSize int    `mapstructure:"recv_buffer_size" yaml:"recv_buffer_size" validate:"min=64"`
	// ReadTimeout bounds the wait for request bytes; 0 waits forever.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}

// CacheConfig holds freshness cache configuration.
type CacheConfig struct {
	// Time is the freshness window in seconds; 0 disables caching.
	Time       int    `mapstructure:"time" yaml:"time" validate:"min=0"`
	Backend    string `mapstructure:"backend" yaml:"backend" validate:"required,oneof=memory leveldb sqlite postgres"`
	MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries" validate:"min=0"`
	Path       string `mapstructure:"path" yaml:"path" validate:"required_if=Backend leveldb"`
	DSN        string `mapstructure:"dsn" yaml:"dsn"`
	Table      string `mapstructure:"table" yaml:"table" validate:"required"`
}

// TTL returns Time as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.Time) * time.Second
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Verbosity string `mapstructure:"verbosity" yaml:"verbosity" validate:"required,oneof=none minimal verbose"`
	Type      string `mapstructure:"type" yaml:"type" validate:"required,oneof=console file syslog"`
	File      string `mapstructure:"file" yaml:"file" validate:"required_if=Type file"`
	Level     string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	Env       string `mapstructure:"env" yaml:"env"`
}

// ScriptConfig holds script execution configuration.
type ScriptConfig struct {
	Extension string        `mapstructure:"extension" yaml:"extension" validate:"required,startswith=."`
	Shell     string        `mapstructure:"shell" yaml:"shell" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`
}

// AdminConfig holds the optional admin API configuration.
type AdminConfig struct {
	Enabled bool       `mapstructure:"enabled" yaml:"enabled"`
	Addr    string     `mapstructure:"addr" yaml:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
	Token   string     `mapstructure:"token" yaml:"token,omitempty"`
	CORS    CORSConfig `mapstructure:"cors" yaml:"cors"`
}

// CORSConfig holds CORS settings for the admin API.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers,omitempty"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age" validate:"min=0"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"ip":            "server.ip",
	"port":          "server.port",
	"root":          "server.root_dir",
	"off-address":   "server.off_address",
	"cache-time":    "cache.time",
	"cache-backend": "cache.backend",
	"cache-dsn":     "cache.dsn",
	"verbosity":     "log.verbosity",
	"log-type":      "log.type",
	"log-file":      "log.file",
	"log-level":     "log.level",
	"admin":         "admin.enabled",
	"admin-addr":    "admin.addr",
}

// legacyKeys maps the flat key=value names of classic config files to
// their structured keys.
var legacyKeys = map[string]string{
	"ip":          "server.ip",
	"port":        "server.port",
	"root_dir":    "server.root_dir",
	"off_address": "server.off_address",
	"cache_time":  "cache.time",
	"verbosity":   "log.verbosity",
	"log_type":    "log.type",
	"log_file":    "log.file",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	v.SetDefault("server.ip", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.root_dir", wd)
	v.SetDefault("server.off_address", "/shutdown")
	v.SetDefault("server.http_version", eir.ProtocolVersion)
	v.SetDefault("server.recv_buffer_size", 4096)
	v.SetDefault("server.read_timeout", "0s")

	v.SetDefault("cache.time", 3600) // seconds
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_entries", 0) // 0 means unbounded
	v.SetDefault("cache.path", "./data/cache")
	v.SetDefault("cache.dsn", "eir-cache.db")
	v.SetDefault("cache.table", "eir_cache")

	v.SetDefault("log.verbosity", "minimal")
	v.SetDefault("log.type", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "dev")

	v.SetDefault("script.extension", ".sh")
	v.SetDefault("script.shell", "/bin/sh")
	v.SetDefault("script.timeout", "0s")

	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.addr", "127.0.0.1:8081")
	v.SetDefault("admin.token", "")
	v.SetDefault("admin.cors.enabled", false)
	v.SetDefault("admin.cors.allowed_origins", []string{"*"})
	v.SetDefault("admin.cors.allowed_methods", []string{"GET", "DELETE"})
	v.SetDefault("admin.cors.allowed_headers", []string{"Authorization"})
	v.SetDefault("admin.cors.max_age", 300)

	return nil
}

// readFile parses one config file. Files ending in .conf, or without an
// extension, use the classic key = value format.
func readFile(path string) (map[string]any, error) {
	fv, err := newFileViper()
	if err != nil {
		return nil, err
	}
	fv.SetConfigFile(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", "":
		fv.SetConfigType(propertiesType)
	}

	if err := fv.ReadInConfig(); err != nil {
		return nil, err
	}
	return fv.AllSettings(), nil
}

// findDefault reads ./config.* when present. A missing file is not an error.
func findDefault() (map[string]any, error) {
	fv, err := newFileViper()
	if err != nil {
		return nil, err
	}
	fv.SetConfigName("config")
	fv.AddConfigPath(".")

	if err := fv.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fv.AllSettings(), nil
}

// applyLegacyKeys moves classic flat keys onto their structured keys. A
// structured key set in the same file wins.
func applyLegacyKeys(settings map[string]any) {
	for legacy, key := range legacyKeys {
		val, ok := settings[legacy]
		if !ok {
			continue
		}
		delete(settings, legacy)

		sectionName, field, _ := strings.Cut(key, ".")
		section, ok := settings[sectionName].(map[string]any)
		if !ok {
			section = map[string]any{}
			settings[sectionName] = section
		}
		if _, exists := section[field]; !exists {
			section[field] = val
		}
	}
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	if err := setDefaults(v); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Read config files
	var sources []map[string]any
	if len(configFiles) > 0 {
		for _, cf := range configFiles {
			settings, err := readFile(cf)
			if err != nil {
				return nil, fmt.Errorf("read config file %s: %w", cf, err)
			}
			sources = append(sources, settings)
		}
	} else {
		settings, err := findDefault()
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if settings != nil {
			sources = append(sources, settings)
		}
	}

	for _, settings := range sources {
		applyLegacyKeys(settings)
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("merge config: %w", err)
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("EIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	root, err := filepath.Abs(cfg.Server.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}
	cfg.Server.RootDir = root

	return &cfg, nil
}
