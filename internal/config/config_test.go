package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David256/quizzed-backend/internal/telemetry"
)

// clearEnv blanks every variable LoadConfig reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SECRET_API_TOKEN", "QUIZZED_API_TOKEN",
		"AMOUNT", "QUIZZED_AMOUNT",
		"VERBOSE", "QUIZZED_VERBOSE",
		"NODE_ENV", "QUIZZED_ENV",
		"QUIZZED_HTTP_TIMEOUT", "QUIZZED_HTTP_MAX_RETRIES",
		"QUIZZED_SOURCES_QUIZAPI_CATEGORIES",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(WithoutDotEnv())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultAmount, cfg.Amount)
	assert.Empty(t, cfg.APIToken)
	assert.False(t, cfg.HasAPIToken())
	assert.Equal(t, DefaultOpenTDBEndpoint, cfg.Sources.OpenTDB.Endpoint)
	assert.Equal(t, "hard", cfg.Sources.OpenTDB.Difficulty)
	assert.Equal(t, "boolean", cfg.Sources.OpenTDB.Type)
	assert.Equal(t, DefaultQuizAPIEndpoint, cfg.Sources.QuizAPI.Endpoint)
	assert.Equal(t, "Hard", cfg.Sources.QuizAPI.Difficulty)
	assert.Equal(t, []string{"Linux", "Docker"}, cfg.Sources.QuizAPI.Categories)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultHTTPMaxRetries, cfg.HTTP.MaxRetries)
	assert.Nil(t, cfg.Telemetry)
}

func TestLoadConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_API_TOKEN", "  secret  ")
	t.Setenv("AMOUNT", "5")
	t.Setenv("VERBOSE", "true")
	t.Setenv("NODE_ENV", "test")
	t.Setenv("QUIZZED_HTTP_TIMEOUT", "3s")

	cfg, err := LoadConfig(WithoutDotEnv())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIToken)
	assert.True(t, cfg.HasAPIToken())
	assert.Equal(t, 5, cfg.Amount)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
}

func TestLoadConfig_PrefixedVariablesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZZED_API_TOKEN", "prefixed")
	t.Setenv("QUIZZED_AMOUNT", "7")
	t.Setenv("AMOUNT", "3")

	cfg, err := LoadConfig(WithoutDotEnv())
	require.NoError(t, err)

	assert.Equal(t, "prefixed", cfg.APIToken)
	assert.Equal(t, 7, cfg.Amount)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, `env: production
amount: 4
sources:
  opentdb:
    endpoint: http://localhost:8081/api.php
  quizapi:
    endpoint: http://localhost:8082/api/v1/questions
    categories: ["Linux", "Kubernetes", "Bash"]
http:
  timeout: 2s
  max_retries: 0
telemetry:
  enabled: true
  serviceName: quizzed-test
  tracing:
    enabled: true
    sampling: 0.5
`)

	cfg, err := LoadConfig(WithConfigPath(path), WithoutDotEnv())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 4, cfg.Amount)
	assert.Equal(t, "http://localhost:8081/api.php", cfg.Sources.OpenTDB.Endpoint)
	assert.Equal(t, "hard", cfg.Sources.OpenTDB.Difficulty)
	assert.Equal(t, []string{"Linux", "Kubernetes", "Bash"}, cfg.Sources.QuizAPI.Categories)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	require.NotNil(t, cfg.Telemetry)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "quizzed-test", cfg.Telemetry.GetServiceName())
	require.NotNil(t, cfg.Telemetry.Tracing)
	assert.InDelta(t, 0.5, cfg.Telemetry.Tracing.Sampling, 0.0001)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AMOUNT", "9")

	path := writeConfigFile(t, "amount: 4\n")

	cfg, err := LoadConfig(WithConfigPath(path), WithoutDotEnv())
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Amount)
}

func TestLoadConfig_FileCannotSetAPIToken(t *testing.T) {
	clearEnv(t)

	path := writeConfigFile(t, "api_token: from-file\namount: 2\n")

	cfg, err := LoadConfig(WithoutDotEnv(), WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Amount)
	assert.Empty(t, cfg.APIToken)
	assert.False(t, cfg.HasAPIToken())

	t.Setenv("SECRET_API_TOKEN", "from-env")
	cfg, err = LoadConfig(WithoutDotEnv(), WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIToken)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, so unset the token entirely.
	require.NoError(t, os.Unsetenv("SECRET_API_TOKEN"))

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SECRET_API_TOKEN=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("SECRET_API_TOKEN") })

	cfg, err := LoadConfig(WithDotEnv(filepath.Join(dir, "missing.env"), envFile))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.APIToken)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "zero amount",
			content:     "amount: 0\n",
			errContains: "amount must be at least 1",
		},
		{
			name:        "non http endpoint",
			content:     "sources:\n  opentdb:\n    endpoint: ftp://opentdb.com/api.php\n",
			errContains: "sources.opentdb.endpoint must use http or https",
		},
		{
			name:        "empty categories",
			content:     "sources:\n  quizapi:\n    categories: []\n",
			errContains: "sources.quizapi.categories must not be empty",
		},
		{
			name:        "negative retries",
			content:     "http:\n  max_retries: -1\n",
			errContains: "http.max_retries must not be negative",
		},
		{
			name:        "invalid sampling",
			content:     "telemetry:\n  enabled: true\n  tracing:\n    enabled: true\n    sampling: 2\n",
			errContains: "sampling must be between 0.0 and 1.0",
		},
		{
			name:        "malformed yaml",
			content:     "amount: [\n",
			errContains: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)

			_, err := LoadConfig(WithConfigPath(path), WithoutDotEnv())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		err := WithConfigPath("")(&loaderConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is required")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		err := WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml"))(&loaderConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to evaluate symlinks")
	})

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "amount: 1\n")
		loader := &loaderConfig{}
		require.NoError(t, WithConfigPath(path)(loader))
		assert.NotEmpty(t, loader.path)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Amount: 3,
			Sources: SourcesConfig{
				OpenTDB: OpenTDBConfig{Endpoint: DefaultOpenTDBEndpoint},
				QuizAPI: QuizAPIConfig{Endpoint: DefaultQuizAPIEndpoint, Categories: []string{"Linux"}},
			},
			HTTP: HTTPConfig{Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing endpoint",
			mutate:  func(c *Config) { c.Sources.QuizAPI.Endpoint = "" },
			wantErr: "sources.quizapi.endpoint is required",
		},
		{
			name:    "blank category",
			mutate:  func(c *Config) { c.Sources.QuizAPI.Categories = []string{"Linux", " "} },
			wantErr: "sources.quizapi.categories[1] must not be blank",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: "http.timeout must be positive",
		},
		{
			name:   "disabled telemetry is not validated",
			mutate: func(c *Config) { c.Telemetry = &telemetry.Config{Tracing: &telemetry.TracingConfig{Sampling: 5}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
