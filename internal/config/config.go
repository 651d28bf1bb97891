// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultAPIURL   = "http://localhost:8000"
	DefaultTimeout  = 30 * time.Second
	DefaultEnv      = "dev"
	DefaultLogLevel = "info"
	DefaultParallel = 4
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL   = "CAUCION_API_URL"
	EnvAPIToken = "CAUCION_API_TOKEN"
	EnvTimeout  = "CAUCION_TIMEOUT"
	EnvEnv      = "CAUCION_ENV"
	EnvLogLevel = "CAUCION_LOG_LEVEL"
	EnvParallel = "CAUCION_PARALLEL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// APIURL is the base URL shared by the registry and quote services.
	APIURL string `json:"api_url,omitempty" validate:"omitempty,url"`
	// APIToken is sent as a bearer token to both services.
	APIToken string   `json:"api_token,omitempty"`
	Timeout  Duration `json:"timeout,omitempty" validate:"gte=0"`
	// Parallel bounds how many batch entries are quoted at once.
	Parallel int    `json:"parallel,omitempty" validate:"gte=0,lte=64"`
	Env      string `json:"env,omitempty" validate:"omitempty,oneof=dev local prod"`
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Quote defaults used when the matching flag is not given.
	Cuotas     int    `json:"cuotas,omitempty" validate:"gte=0"`
	RentalType string `json:"rental_type,omitempty" validate:"omitempty,oneof=F U C"`

	// SkipSchemaCheck disables JSON Schema validation of response bodies.
	SkipSchemaCheck bool `json:"skip_schema_check,omitempty"`
}

// Duration is a time.Duration that reads from JSON as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalJSON accepts "30s"-style strings or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Error is a configuration problem.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the CAUCION_* environment variables. Unset variables leave
// the matching fields empty.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:   os.Getenv(EnvAPIURL),
		APIToken: os.Getenv(EnvAPIToken),
		Env:      strings.ToLower(os.Getenv(EnvEnv)),
		LogLevel: strings.ToLower(os.Getenv(EnvLogLevel)),
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, &Error{Message: "invalid " + EnvTimeout, Cause: err}
		}
		cfg.Timeout = Duration(timeout)
	}

	if raw := os.Getenv(EnvParallel); raw != "" {
		parallel, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, &Error{Message: "invalid " + EnvParallel, Cause: err}
		}
		cfg.Parallel = parallel
	}

	return cfg, nil
}

// Overlay returns c with every non-empty field of other applied on top.
func (c Config) Overlay(other Config) Config {
	result := c
	if other.APIURL != "" {
		result.APIURL = other.APIURL
	}
	if other.APIToken != "" {
		result.APIToken = other.APIToken
	}
	if other.Timeout != 0 {
		result.Timeout = other.Timeout
	}
	if other.Parallel != 0 {
		result.Parallel = other.Parallel
	}
	if other.Env != "" {
		result.Env = other.Env
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.Cuotas != 0 {
		result.Cuotas = other.Cuotas
	}
	if other.RentalType != "" {
		result.RentalType = other.RentalType
	}
	if other.SkipSchemaCheck {
		result.SkipSchemaCheck = true
	}
	return result
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &Error{
				Message: fmt.Sprintf("'%s' failed the '%s' check", fe.Field(), fe.Tag()),
				Cause:   err,
			}
		}
		return &Error{Message: "invalid configuration", Cause: err}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.APIURL == "" {
		result.APIURL = DefaultAPIURL
	}
	if result.APIToken == "" {
		result.APIToken = defaults.APIToken
	}
	if result.Env == "" {
		result.Env = defaults.Env
	}
	if result.Env == "" {
		result.Env = DefaultEnv
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogLevel == "" {
		result.LogLevel = DefaultLogLevel
	}
	if result.RentalType == "" {
		result.RentalType = defaults.RentalType
	}

	// Numeric fields: use default if zero
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Timeout == 0 {
		result.Timeout = Duration(DefaultTimeout)
	}
	if result.Parallel == 0 {
		result.Parallel = defaults.Parallel
	}
	if result.Parallel == 0 {
		result.Parallel = DefaultParallel
	}
	if result.Cuotas == 0 {
		result.Cuotas = defaults.Cuotas
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load resolves the effective configuration: the optional JSON file at path,
// then CAUCION_* environment variables, then built-in defaults. The result is validated.
func Load(path string) (Config, error) {
	var base Config
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		base = *fileCfg
	}

	envCfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	merged := base.Overlay(envCfg)
	merged = merged.MergeWithDefaults(Config{})
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "****"
	}
	return c
}
