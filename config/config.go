// Package config loads tasksolver configuration from YAML with TASKSOLVER_*
// environment overrides, and task definitions from YAML task files.
//
// A configuration file looks like:
//
//	log:
//	  level: info
//	  pretty: true
//	provider:
//	  kind: anthropic
//	  model: claude-sonnet-4-5
//	keys:
//	  anthropic: ~/.config/tasksolver/anthropic.key
//	solver:
//	  max_tries: 5
//	  failure_dir: failures
//	events:
//	  backend: file
//	  dir: events
//
// Every key is optional. Environment variables take precedence over the file:
// TASKSOLVER_PROVIDER, TASKSOLVER_MODEL, TASKSOLVER_BASE_URL,
// TASKSOLVER_LOG_LEVEL, TASKSOLVER_LOG_PRETTY, TASKSOLVER_MAX_TRIES,
// TASKSOLVER_MAX_TOKENS, TASKSOLVER_FAILURE_DIR, TASKSOLVER_EVENTS,
// TASKSOLVER_EVENTS_DIR, TASKSOLVER_REDIS_ADDR, TASKSOLVER_EVENTS_TTL,
// TASKSOLVER_MAX_ITERATIONS and TASKSOLVER_KEY_<SERVICE>.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/eventstore"
	"github.com/rickchristie/tasksolver/providers"
	"github.com/rickchristie/tasksolver/schema"
	"github.com/rickchristie/tasksolver/solver"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TASKSOLVER_"

// Event backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type SolverConfig struct {
	MaxTries   int    `yaml:"max_tries"`
	MaxTokens  int    `yaml:"max_tokens"`
	FailureDir string `yaml:"failure_dir"`
}

type EventsConfig struct {
	Backend   string `yaml:"backend"`
	Dir       string `yaml:"dir"`
	RedisAddr string `yaml:"redis_addr"`
	TTL       string `yaml:"ttl"`
}

type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// Config is the full configuration of a tasksolver process.
type Config struct {
	Log      LogConfig          `yaml:"log"`
	Provider providers.Settings `yaml:"provider"`

	// Keys maps a service name to its secret, or to a file holding it.
	Keys map[string]string `yaml:"keys"`

	Solver SolverConfig `yaml:"solver"`
	Events EventsConfig `yaml:"events"`
	Agent  AgentConfig  `yaml:"agent"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Solver: SolverConfig{
			MaxTries:  solver.DefaultMaxTries,
			MaxTokens: solver.DefaultMaxTokens,
		},
		Events: EventsConfig{
			Backend: BackendNone,
			Dir:     "events",
			TTL:     eventstore.DefaultTTL.String(),
		},
		Agent: AgentConfig{MaxIterations: 10},
	}
}

var configSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"log": schema.Nested("Logging", schema.Object(map[string]*schema.Property{
		"level":  schema.String("Minimum level").Enum("trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"),
		"pretty": schema.Boolean("Human readable console output").Default(false),
	})),
	"provider": schema.Nested("Model backend", schema.Object(map[string]*schema.Property{
		"kind":     schema.String("Backend kind").Enum("openai", "anthropic", "gemini", "ollama"),
		"model":    schema.String("Model id").MinLength(1),
		"base_url": schema.String("Endpoint or server address"),
	})),
	"keys": schema.Map("Secrets or secret files by service", map[string]any{"type": "string"}),
	"solver": schema.Nested("Retry engine", schema.Object(map[string]*schema.Property{
		"max_tries":   schema.Integer("Retries after the first attempt").Min(0),
		"max_tokens":  schema.Integer("Generation limit per request").Min(1),
		"failure_dir": schema.String("Directory for unparseable replies"),
	})),
	"events": schema.Nested("Event persistence", schema.Object(map[string]*schema.Property{
		"backend":    schema.String("Store").Enum(BackendNone, BackendFile, BackendRedis),
		"dir":        schema.String("File store root"),
		"redis_addr": schema.String("Redis address, host:port"),
		"ttl":        schema.String("Redis list lifetime").Pattern(`^([0-9]+(\.[0-9]+)?(ns|us|ms|s|m|h))+$`),
	})),
	"agent": schema.Nested("Agent loop", schema.Object(map[string]*schema.Property{
		"max_iterations": schema.Integer("Think/act/observe/reflect rounds").Min(1),
	})),
}))

// Load reads path, applies environment overrides and validates the result.
// An empty path loads the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults.
func Parse(data []byte) (Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
	}
	if doc != nil {
		if err := configSchema.Validate(doc); err != nil {
			return Config{}, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the values that the schema cannot.
func (c Config) Validate() error {
	if _, err := c.EventsTTL(); err != nil {
		return fmt.Errorf("%w: events.ttl: %v", tasksolver.ErrInvalidConfig, err)
	}
	switch c.Events.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown events backend %q", tasksolver.ErrInvalidConfig, c.Events.Backend)
	}
	if c.Events.Backend == BackendRedis && c.Events.RedisAddr == "" {
		return fmt.Errorf("%w: events.redis_addr is required for the redis backend", tasksolver.ErrInvalidConfig)
	}
	if c.Solver.MaxTries < 0 || c.Solver.MaxTokens < 1 {
		return fmt.Errorf("%w: solver bounds must be positive", tasksolver.ErrInvalidConfig)
	}
	return nil
}

// EventsTTL parses the Redis list lifetime.
func (c Config) EventsTTL() (time.Duration, error) {
	if c.Events.TTL == "" {
		return eventstore.DefaultTTL, nil
	}
	return time.ParseDuration(c.Events.TTL)
}

// KeyChain builds a keychain from the configured keys.
func (c Config) KeyChain() (*tasksolver.KeyChain, error) {
	keys := tasksolver.NewKeyChain()
	for service, key := range c.Keys {
		if err := keys.Add(service, key); err != nil {
			return nil, fmt.Errorf("key %s: %w", service, err)
		}
	}
	return keys, nil
}

// SolverOptions returns the solver options the configuration describes.
func (c Config) SolverOptions() []solver.Option {
	opts := []solver.Option{
		solver.WithMaxTries(c.Solver.MaxTries),
		solver.WithMaxTokens(c.Solver.MaxTokens),
	}
	if c.Solver.FailureDir != "" {
		opts = append(opts, solver.WithFailureDir(c.Solver.FailureDir))
	}
	return opts
}

// EventStore opens the configured event store. It returns nil for the none
// backend.
func (c Config) EventStore(ctx context.Context) (eventstore.Store, error) {
	switch c.Events.Backend {
	case BackendFile:
		return eventstore.NewFileStore(c.Events.Dir), nil
	case BackendRedis:
		ttl, err := c.EventsTTL()
		if err != nil {
			return nil, err
		}
		return eventstore.DialRedis(ctx, c.Events.RedisAddr, ttl)
	default:
		return nil, nil
	}
}

func (c *Config) applyEnv() error {
	c.Log.Level = envString("LOG_LEVEL", c.Log.Level)
	c.Provider.Kind = providers.Kind(envString("PROVIDER", string(c.Provider.Kind)))
	c.Provider.Model = envString("MODEL", c.Provider.Model)
	c.Provider.BaseURL = envString("BASE_URL", c.Provider.BaseURL)
	c.Solver.FailureDir = envString("FAILURE_DIR", c.Solver.FailureDir)
	c.Events.Backend = envString("EVENTS", c.Events.Backend)
	c.Events.Dir = envString("EVENTS_DIR", c.Events.Dir)
	c.Events.RedisAddr = envString("REDIS_ADDR", c.Events.RedisAddr)
	c.Events.TTL = envString("EVENTS_TTL", c.Events.TTL)

	var err error
	if c.Log.Pretty, err = envBool("LOG_PRETTY", c.Log.Pretty); err != nil {
		return err
	}
	if c.Solver.MaxTries, err = envInt("MAX_TRIES", c.Solver.MaxTries); err != nil {
		return err
	}
	if c.Solver.MaxTokens, err = envInt("MAX_TOKENS", c.Solver.MaxTokens); err != nil {
		return err
	}
	if c.Agent.MaxIterations, err = envInt("MAX_ITERATIONS", c.Agent.MaxIterations); err != nil {
		return err
	}

	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		service, ok := strings.CutPrefix(name, envPrefix+"KEY_")
		if !ok || service == "" || value == "" {
			continue
		}
		if c.Keys == nil {
			c.Keys = make(map[string]string)
		}
		c.Keys[strings.ToLower(service)] = value
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s%s: %v", tasksolver.ErrInvalidConfig, envPrefix, key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s%s: %v", tasksolver.ErrInvalidConfig, envPrefix, key, err)
	}
	return b, nil
}
