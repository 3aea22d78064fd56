// Package config loads loopline settings from TOML or YAML files.
//
// A config file tunes the layout, sets render defaults and selects the cache
// backend and server address. Every field is optional; [Default] supplies
// the built-in values and a loaded file only overrides what it names.
//
//	# loopline.toml
//	[layout]
//	diameter = 500
//	iterations = 400
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	prefix = "team-a:"
//
// The cache prefix keeps the keys of several deployments sharing one Redis
// or MongoDB backend apart.
//
// A few settings can also come from the environment, which wins over the
// file: LOOPLINE_CACHE_BACKEND, LOOPLINE_CACHE_PREFIX, LOOPLINE_REDIS_ADDR,
// LOOPLINE_MONGO_URI and LOOPLINE_ADDR.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/loopline/pkg/cache"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/layout/force"
	"github.com/matzehuels/loopline/pkg/layout/stress"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvCacheBackend = "LOOPLINE_CACHE_BACKEND"
	EnvCachePrefix  = "LOOPLINE_CACHE_PREFIX"
	EnvRedisAddr    = "LOOPLINE_REDIS_ADDR"
	EnvMongoURI     = "LOOPLINE_MONGO_URI"
	EnvAddr         = "LOOPLINE_ADDR"
)

// Config is the complete loopline configuration.
type Config struct {
	Layout Layout `toml:"layout" yaml:"layout"`
	Render Render `toml:"render" yaml:"render"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Server Server `toml:"server" yaml:"server"`
}

// Layout tunes both layout stages.
type Layout struct {
	Diameter       float64 `toml:"diameter" yaml:"diameter"`
	Stiffness      float64 `toml:"stiffness" yaml:"stiffness"`
	Epsilon        float64 `toml:"epsilon" yaml:"epsilon"`
	MaxNewtonSteps int     `toml:"max_newton_steps" yaml:"max_newton_steps"`
	MaxSweeps      int     `toml:"max_sweeps" yaml:"max_sweeps"`

	Spacing     float64 `toml:"spacing" yaml:"spacing"`
	Iterations  int     `toml:"iterations" yaml:"iterations"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	Cooling     float64 `toml:"cooling" yaml:"cooling"`
	DummyOffset float64 `toml:"dummy_offset" yaml:"dummy_offset"`
	FreezeReal  bool    `toml:"freeze_real" yaml:"freeze_real"`
}

// Render holds output defaults.
type Render struct {
	Width      float64  `toml:"width" yaml:"width"`
	Height     float64  `toml:"height" yaml:"height"`
	FontSize   float64  `toml:"font_size" yaml:"font_size"`
	Formats    []string `toml:"formats" yaml:"formats"`
	Style      string   `toml:"style" yaml:"style"`
	Background string   `toml:"background" yaml:"background"`
	Scale      float64  `toml:"scale" yaml:"scale"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend         string `toml:"backend" yaml:"backend"` // file, redis, mongo or none
	Dir             string `toml:"dir" yaml:"dir"`
	Prefix          string `toml:"prefix" yaml:"prefix"` // prepended to every cache key
	RedisAddr       string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string `toml:"redis_password" yaml:"redis_password"`
	RedisDB         int    `toml:"redis_db" yaml:"redis_db"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBody      int64    `toml:"max_body" yaml:"max_body"`
}

// Duration is a time.Duration written as a string such as "30s" in both
// TOML and YAML.
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	s := stress.DefaultOptions()
	f := force.DefaultOptions()
	return Config{
		Layout: Layout{
			Diameter:       s.Diameter,
			Stiffness:      s.Stiffness,
			Epsilon:        s.Epsilon,
			MaxNewtonSteps: s.MaxNewtonSteps,
			MaxSweeps:      s.MaxSweeps,
			Spacing:        f.Spacing,
			Iterations:     f.Iterations,
			Temperature:    f.Temperature,
			Cooling:        f.Cooling,
			DummyOffset:    f.DummyOffset,
		},
		Render: Render{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			FontSize: pipeline.DefaultFontSize,
			Formats:  []string{pipeline.FormatSVG},
			Style:    graph.StyleSimple,
			Scale:    pipeline.DefaultScale,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBody:      errors.MaxSourceSize,
		},
	}
}

// Load reads path on top of [Default], applies environment overrides and
// validates the result. The format is chosen by extension: .toml, .yaml or
// .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := cfg.decode(filepath.Ext(path), data); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set and returns the validated
// defaults with environment overrides otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg := Default()
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".toml":
		_, err := toml.Decode(string(data), c)
		return err
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err := dec.Decode(c)
		if err == io.EOF {
			return nil
		}
		return err
	}
	return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvCachePrefix); v != "" {
		c.Cache.Prefix = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"layout.diameter", c.Layout.Diameter},
		{"layout.stiffness", c.Layout.Stiffness},
		{"layout.epsilon", c.Layout.Epsilon},
		{"layout.max_newton_steps", float64(c.Layout.MaxNewtonSteps)},
		{"layout.max_sweeps", float64(c.Layout.MaxSweeps)},
		{"layout.spacing", c.Layout.Spacing},
		{"layout.iterations", float64(c.Layout.Iterations)},
		{"layout.temperature", c.Layout.Temperature},
		{"layout.cooling", c.Layout.Cooling},
		{"layout.dummy_offset", c.Layout.DummyOffset},
		{"render.width", c.Render.Width},
		{"render.height", c.Render.Height},
		{"render.font_size", c.Render.FontSize},
		{"render.scale", c.Render.Scale},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %v", p.name, p.value)
		}
	}
	if c.Layout.Cooling > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.cooling must be at most 1, got %v", c.Layout.Cooling)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.style")
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend must be one of file, redis, mongo, none; got %q", c.Cache.Backend)
	}
	if c.Server.MaxBody <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body must be positive")
	}
	return nil
}

// PipelineOptions maps the layout and render settings to pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:          c.Render.Width,
		Height:         c.Render.Height,
		FontSize:       c.Render.FontSize,
		Diameter:       c.Layout.Diameter,
		Stiffness:      c.Layout.Stiffness,
		Epsilon:        c.Layout.Epsilon,
		MaxNewtonSteps: c.Layout.MaxNewtonSteps,
		MaxSweeps:      c.Layout.MaxSweeps,
		Spacing:        c.Layout.Spacing,
		Iterations:     c.Layout.Iterations,
		Temperature:    c.Layout.Temperature,
		Cooling:        c.Layout.Cooling,
		DummyOffset:    c.Layout.DummyOffset,
		FreezeReal:     c.Layout.FreezeReal,
		Formats:        append([]string(nil), c.Render.Formats...),
		Style:          c.Render.Style,
		Background:     c.Render.Background,
		Scale:          c.Render.Scale,
	}
}

// CacheOptions maps the cache settings for cache.Open. dir is used when
// the config does not name a directory.
func (c Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}
}

// Keyer returns the cache keyer for the configured prefix.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}
