// Package config loads the figurine configuration file.
//
// The file is TOML. Its location is, in order: an explicit path (the
// --config flag), $FIGURINE_CONFIG, then $XDG_CONFIG_HOME/figurine/config.toml
// (~/.config/figurine/config.toml). A missing file at the default location is
// not an error; every setting has a default.
//
//	[expand]
//	mode = "link"
//	concurrency = 8
//
//	[store]
//	backend = "s3"
//	[store.s3]
//	bucket = "blog-assets"
//	public_base_url = "https://cdn.example.com"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	address = "${REDIS_ADDR}"
//
// Environment variables written as ${NAME} are expanded before parsing.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/pipeline"
	"github.com/matzehuels/figurine/pkg/store"
	"github.com/matzehuels/figurine/pkg/theme"
)

// EnvPath names the environment variable that points at the config file.
const EnvPath = "FIGURINE_CONFIG"

const appName = "figurine"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendS3     = "s3"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Theme  ThemeConfig  `toml:"theme"`
	Expand ExpandConfig `toml:"expand"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Index  IndexConfig  `toml:"index"`
	Server ServerConfig `toml:"server"`
}

// ThemeConfig overrides the site palette.
type ThemeConfig struct {
	FontFamily string `toml:"font_family"`
	// Caption labels the progression arrow.
	Caption string `toml:"caption"`
	// Accents replace the first len(Accents) accent colors.
	AccentsLight []string `toml:"accents_light"`
	AccentsDark  []string `toml:"accents_dark"`
}

// ExpandConfig holds defaults for marker expansion.
type ExpandConfig struct {
	Mode        string `toml:"mode"`
	Concurrency int    `toml:"concurrency"`
	BaseURL     string `toml:"base_url"`
}

// CacheConfig selects the figure cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // none, file, redis
	Dir     string `toml:"dir"`
	// Scope prefixes every key, so several blogs can share one backend.
	Scope string `toml:"scope"`

	Redis cache.RedisConfig `toml:"redis"`
}

// StoreConfig selects where link-mode figures are published.
type StoreConfig struct {
	Backend string         `toml:"backend"` // file, s3
	Dir     string         `toml:"dir"`     // site root for the file backend
	BaseURL string         `toml:"base_url"`
	S3      store.S3Config `toml:"s3"`
}

// IndexConfig selects where published figures are recorded.
type IndexConfig struct {
	Backend string            `toml:"backend"` // none, memory, mongo
	Mongo   store.MongoConfig `toml:"mongo"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills in zero values. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Expand.Mode == "" {
		c.Expand.Mode = pipeline.DefaultMode
	}
	if c.Expand.Concurrency <= 0 {
		c.Expand.Concurrency = pipeline.DefaultConcurrency
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	setRedisDefaults(&c.Cache.Redis)

	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "public"
	}

	if c.Index.Backend == "" {
		c.Index.Backend = BackendNone
	}
	setMongoDefaults(&c.Index.Mongo)

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
}

func setRedisDefaults(r *cache.RedisConfig) {
	def := cache.DefaultRedisConfig()
	if r.Address == "" {
		r.Address = def.Address
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = def.KeyPrefix
	}
	if r.PoolSize <= 0 {
		r.PoolSize = def.PoolSize
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = def.DialTimeout
	}
	if r.ReadTimeout <= 0 {
		r.ReadTimeout = def.ReadTimeout
	}
	if r.WriteTimeout <= 0 {
		r.WriteTimeout = def.WriteTimeout
	}
}

func setMongoDefaults(m *store.MongoConfig) {
	def := store.DefaultMongoConfig()
	if m.URI == "" {
		m.URI = def.URI
	}
	if m.Database == "" {
		m.Database = def.Database
	}
	if m.Collection == "" {
		m.Collection = def.Collection
	}
	if m.ConnectTimeout <= 0 {
		m.ConnectTimeout = def.ConnectTimeout
	}
	if m.QueryTimeout <= 0 {
		m.QueryTimeout = def.QueryTimeout
	}
	if m.MaxPoolSize == 0 {
		m.MaxPoolSize = def.MaxPoolSize
	}
}

// Validate checks backend names and values. Call it after SetDefaults.
func (c *Config) Validate() error {
	if err := pipeline.ValidateMode(c.Expand.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "expand.mode")
	}
	if c.Expand.BaseURL != "" {
		if err := errors.ValidateURL(c.Expand.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "expand.base_url")
		}
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendNone, BackendFile, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("store.backend", c.Store.Backend, BackendFile, BackendS3); err != nil {
		return err
	}
	if c.Store.Backend == BackendS3 && c.Store.S3.Bucket == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.s3.bucket is required for the s3 backend")
	}
	if c.Store.BaseURL != "" {
		if err := errors.ValidateURL(c.Store.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.base_url")
		}
	}
	if err := oneOf("index.backend", c.Index.Backend, BackendNone, BackendMemory, BackendMongo); err != nil {
		return err
	}
	for _, accents := range [][]string{c.Theme.AccentsLight, c.Theme.AccentsDark} {
		if len(accents) > theme.AccentCount {
			return errors.New(errors.ErrCodeInvalidConfig, "theme accents: at most %d colors, got %d", theme.AccentCount, len(accents))
		}
		for _, c := range accents {
			if !theme.ValidColor(c) {
				return errors.New(errors.ErrCodeInvalidConfig, "theme accents: %q is not a hex color or var(--name)", c)
			}
		}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown backend %q (must be one of: %v)", field, value, allowed)
}

// Path resolves the config file location. explicit wins over the
// environment, which wins over the default. The bool reports whether the
// path was chosen by the user, in which case it must exist.
func Path(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}
	return filepath.Join(configHome(), appName, "config.toml"), false
}

// Load reads the config at the resolved path, applies defaults and
// validates.
func Load(explicit string) (*Config, error) {
	path, required := Path(explicit)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(os.ExpandEnv(string(data)), c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "."
}

// defaultCacheDir follows XDG (~/.cache/figurine/).
func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}
