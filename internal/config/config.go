// Package config provides configuration loading and management for the quiz backend.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/David256/quizzed-backend/internal/telemetry"
)

const (
	// EnvPrefix is the prefix for environment variables overriding configuration keys
	EnvPrefix = "QUIZZED"

	// EnvProduction selects production logging
	EnvProduction = "production"

	// EnvTest forces the local question source
	EnvTest = "test"

	// DefaultAmount is the number of questions requested per quiz
	DefaultAmount = 10

	// DefaultOpenTDBEndpoint is the Open Trivia DB question endpoint
	DefaultOpenTDBEndpoint = "https://opentdb.com/api.php"

	// DefaultQuizAPIEndpoint is the QuizAPI question endpoint
	DefaultQuizAPIEndpoint = "https://quizapi.io/api/v1/questions"

	// DefaultHTTPTimeout is the timeout applied to every outgoing request
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultHTTPMaxRetries is the number of retries after a retryable failure
	DefaultHTTPMaxRetries = 2
)

// DefaultQuizAPICategories are the QuizAPI categories questions are drawn from.
// For more categories read https://quizapi.io/categories
var DefaultQuizAPICategories = []string{"Linux", "Docker"}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path       string
	dotEnv     []string
	skipDotEnv bool
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// WithDotEnv sets the dotenv files loaded before reading the environment.
// Missing files are ignored. Defaults to ".env".
func WithDotEnv(paths ...string) Option {
	return func(cfg *loaderConfig) error {
		cfg.dotEnv = paths
		return nil
	}
}

// WithoutDotEnv disables dotenv loading
func WithoutDotEnv() Option {
	return func(cfg *loaderConfig) error {
		cfg.skipDotEnv = true
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Env is the application environment (development, production, test)
	Env string `mapstructure:"env"`

	// Verbose lowers the log level to debug
	Verbose bool `mapstructure:"verbose"`

	// Amount is the number of questions requested from a source
	Amount int `mapstructure:"amount"`

	// APIToken is the QuizAPI secret, loaded from the environment only
	APIToken string `mapstructure:"-"`

	Sources   SourcesConfig     `mapstructure:"sources"`
	HTTP      HTTPConfig        `mapstructure:"http"`
	Telemetry *telemetry.Config `mapstructure:"telemetry"`
}

// SourcesConfig groups the remote question source settings
type SourcesConfig struct {
	OpenTDB OpenTDBConfig `mapstructure:"opentdb"`
	QuizAPI QuizAPIConfig `mapstructure:"quizapi"`
}

// OpenTDBConfig defines the Open Trivia DB source
type OpenTDBConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Difficulty string `mapstructure:"difficulty"`
	Type       string `mapstructure:"type"`
}

// QuizAPIConfig defines the QuizAPI source
type QuizAPIConfig struct {
	Endpoint   string   `mapstructure:"endpoint"`
	Difficulty string   `mapstructure:"difficulty"`
	Categories []string `mapstructure:"categories"`
}

// HTTPConfig defines the outgoing HTTP client
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LoadConfig reads configuration from defaults, an optional YAML file, dotenv files
// and environment variables, in increasing order of precedence.
func LoadConfig(opts ...Option) (*Config, error) {
	loader := &loaderConfig{dotEnv: []string{".env"}}
	for _, opt := range opts {
		if err := opt(loader); err != nil {
			return nil, err
		}
	}

	if !loader.skipDotEnv {
		if err := loadDotEnv(loader.dotEnv); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names used by existing deployments.
	_ = v.BindEnv("amount", EnvPrefix+"_AMOUNT", "AMOUNT")
	_ = v.BindEnv("verbose", EnvPrefix+"_VERBOSE", "VERBOSE")
	_ = v.BindEnv("env", EnvPrefix+"_ENV", "NODE_ENV")

	if loader.path != "" {
		v.SetConfigFile(loader.path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.APIToken = apiTokenFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// apiTokenFromEnv reads the QuizAPI secret from a viper bound to the environment only,
// so a config file can never carry it.
func apiTokenFromEnv() string {
	env := viper.New()
	_ = env.BindEnv("api_token", "SECRET_API_TOKEN", EnvPrefix+"_API_TOKEN")
	return strings.TrimSpace(env.GetString("api_token"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("verbose", false)
	v.SetDefault("amount", DefaultAmount)
	v.SetDefault("sources.opentdb.endpoint", DefaultOpenTDBEndpoint)
	v.SetDefault("sources.opentdb.difficulty", "hard")
	v.SetDefault("sources.opentdb.type", "boolean")
	v.SetDefault("sources.quizapi.endpoint", DefaultQuizAPIEndpoint)
	v.SetDefault("sources.quizapi.difficulty", "Hard")
	v.SetDefault("sources.quizapi.categories", DefaultQuizAPICategories)
	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("http.max_retries", DefaultHTTPMaxRetries)
}

func loadDotEnv(paths []string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// HasAPIToken reports whether the QuizAPI secret is configured
func (c *Config) HasAPIToken() bool {
	return c.APIToken != ""
}

// IsProduction reports whether the production environment is selected
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// IsTest reports whether the test environment is selected
func (c *Config) IsTest() bool {
	return strings.EqualFold(c.Env, EnvTest)
}

// Validate checks the configuration for values the sources cannot work with
func (c *Config) Validate() error {
	var errs []error

	if c.Amount < 1 {
		errs = append(errs, fmt.Errorf("amount must be at least 1, got %d", c.Amount))
	}

	if err := validateEndpoint("sources.opentdb.endpoint", c.Sources.OpenTDB.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if err := validateEndpoint("sources.quizapi.endpoint", c.Sources.QuizAPI.Endpoint); err != nil {
		errs = append(errs, err)
	}

	if len(c.Sources.QuizAPI.Categories) == 0 {
		errs = append(errs, fmt.Errorf("sources.quizapi.categories must not be empty"))
	}
	for i, category := range c.Sources.QuizAPI.Categories {
		if strings.TrimSpace(category) == "" {
			errs = append(errs, fmt.Errorf("sources.quizapi.categories[%d] must not be blank", i))
		}
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout))
	}
	if c.HTTP.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("http.max_retries must not be negative, got %d", c.HTTP.MaxRetries))
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func validateEndpoint(key, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, u.Scheme)
	}
	return nil
}
