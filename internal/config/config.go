// Package config loads deployview settings from an optional YAML file and
// DEPLOYVIEW_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/server"
	"github.com/matzehuels/deployview/pkg/store"
)

const (
	appName    = "deployview"
	envPrefix  = "DEPLOYVIEW"
	configName = "deployview"
)

// Config holds all application configuration.
type Config struct {
	OutputDir string       `mapstructure:"output_dir"`
	Formats   []string     `mapstructure:"formats"`
	Log       LogConfig    `mapstructure:"log"`
	Cache     CacheConfig  `mapstructure:"cache"`
	Store     StoreConfig  `mapstructure:"store"`
	Server    ServerConfig `mapstructure:"server"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`

	// Namespace prefixes artifact keys so projects sharing a backend
	// never see each other's entries.
	Namespace string `mapstructure:"namespace"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	MongoURI   string `mapstructure:"mongo_uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// CacheOptions converts the cache section for [cache.Open].
func (c CacheConfig) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Backend, Dir: c.Dir, RedisURL: c.RedisURL}
}

// StoreOptions converts the store section for [store.Open].
func (c StoreConfig) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Backend,
		Dir:        c.Dir,
		MongoURI:   c.MongoURI,
		Database:   c.Database,
		Collection: c.Collection,
	}
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		warnings = append(warnings, errors.UserMessage(err))
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level %q, using info", c.Log.Level))
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone, "":
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			warnings = append(warnings, "cache backend 'redis' is configured but cache.redis_url is empty")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		warnings = append(warnings, fmt.Sprintf("cache ttl %s is not positive", c.Cache.TTL))
	}

	switch c.Store.Backend {
	case store.BackendFile, "":
	case store.BackendMongo:
		if c.Store.MongoURI == "" {
			warnings = append(warnings, "store backend 'mongo' is configured but store.mongo_uri is empty")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown store backend %q", c.Store.Backend))
	}

	return warnings
}

// Load reads configuration from file and environment.
//
// An explicit path must exist. Without one, deployview.yaml is looked up in
// the working directory and then in $XDG_CONFIG_HOME/deployview; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unmarshalling config")
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", pipeline.DefaultOutputDir)
	v.SetDefault("formats", []string{})
	v.SetDefault("log.level", "info")

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", defaultDir(CacheDir))
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("cache.namespace", "")

	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.dir", defaultDir(DataDir))
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.database", store.DefaultMongoDatabase)
	v.SetDefault("store.collection", store.DefaultMongoCollection)

	v.SetDefault("server.addr", server.DefaultAddr)
}

func defaultDir(fn func() (string, error)) string {
	dir, err := fn()
	if err != nil {
		return ""
	}
	return dir
}

// CacheDir returns the artifact cache directory using the XDG standard
// (~/.cache/deployview/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the published-diagram directory using the XDG standard
// (~/.local/share/deployview/).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
