package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvAPIToken, EnvTimeout, EnvEnv, EnvLogLevel, EnvParallel} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpFile := writeConfig(t, `{
		"api_url": "https://cotizador.example.com/api",
		"api_token": "abc",
		"timeout": "5s",
		"cuotas": 3,
		"rental_type": "C",
		"skip_schema_check": true
	}`)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://cotizador.example.com/api", cfg.APIURL)
	assert.Equal(t, "abc", cfg.APIToken)
	assert.Equal(t, Duration(5*time.Second), cfg.Timeout)
	assert.Equal(t, 3, cfg.Cuotas)
	assert.Equal(t, "C", cfg.RentalType)
	assert.True(t, cfg.SkipSchemaCheck)
}

func TestLoadConfig_NumericTimeout(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"timeout": 2.5}`))
	require.NoError(t, err)
	assert.Equal(t, Duration(2500*time.Millisecond), cfg.Timeout)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"timeout": "soon"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "full", cfg: Config{APIURL: "http://localhost:8000", Env: "prod", LogLevel: "debug", Parallel: 8, RentalType: "U"}},
		{name: "bad url", cfg: Config{APIURL: "localhost"}, wantErr: "APIURL"},
		{name: "bad env", cfg: Config{Env: "staging"}, wantErr: "Env"},
		{name: "bad level", cfg: Config{LogLevel: "trace"}, wantErr: "LogLevel"},
		{name: "negative parallel", cfg: Config{Parallel: -1}, wantErr: "Parallel"},
		{name: "too parallel", cfg: Config{Parallel: 100}, wantErr: "Parallel"},
		{name: "bad rental type", cfg: Config{RentalType: "X"}, wantErr: "RentalType"},
		{name: "negative timeout", cfg: Config{Timeout: Duration(-time.Second)}, wantErr: "Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIURL: "https://a.example.com"}
	merged := cfg.MergeWithDefaults(Config{APIURL: "https://b.example.com", Cuotas: 2})

	assert.Equal(t, "https://a.example.com", merged.APIURL)
	assert.Equal(t, 2, merged.Cuotas)
	assert.Equal(t, Duration(DefaultTimeout), merged.Timeout)
	assert.Equal(t, DefaultEnv, merged.Env)
	assert.Equal(t, DefaultLogLevel, merged.LogLevel)
	assert.Equal(t, DefaultParallel, merged.Parallel)

	empty := Config{}
	assert.Equal(t, DefaultAPIURL, empty.MergeWithDefaults(Config{}).APIURL)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvTimeout, "12s")
	t.Setenv(EnvEnv, "PROD")
	t.Setenv(EnvParallel, "2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIURL)
	assert.Equal(t, Duration(12*time.Second), cfg.Timeout)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 2, cfg.Parallel)
}

func TestFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "forever")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)

	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvParallel, "many")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvParallel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"api_url": "https://file.example.com", "api_token": "file-token", "cuotas": 4}`)
	t.Setenv(EnvAPIToken, "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, 4, cfg.Cuotas)
	assert.Equal(t, Duration(DefaultTimeout), cfg.Timeout)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
}

func TestLoad_InvalidAfterMerge(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "loud")
	_, err := Load("")
	require.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIToken: "secret"}
	assert.Equal(t, "****", cfg.Redacted().APIToken)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Empty(t, Config{}.Redacted().APIToken)
}
