package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/config"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/observability"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/policy"
)

var (
	rootConfigPath string
	rootAPIURL     string
	rootToken      string
	rootTimeout    time.Duration
	rootEnv        string
	rootLogLevel   string
	rootVerbose    bool
	rootJSON       bool
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *policy.Client
}

var current *app

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVar(&rootAPIURL, "api-url", "", "Base URL of the registry and quote services (defaults to CAUCION_API_URL or "+config.DefaultAPIURL+")")
	flags.StringVar(&rootToken, "token", "", "Bearer token for the services (defaults to CAUCION_API_TOKEN)")
	flags.DurationVar(&rootTimeout, "timeout", 0, "HTTP request timeout (default 30s)")
	flags.StringVar(&rootEnv, "env", "", "Logger flavor: dev, local or prod")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print each workflow transition to stderr")
	flags.BoolVar(&rootJSON, "json", false, "Print results as JSON")
}

// resolveConfig layers root flags over the config file and environment.
func resolveConfig() (config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg = cfg.Overlay(config.Config{
		APIURL:   rootAPIURL,
		APIToken: rootToken,
		Timeout:  config.Duration(rootTimeout),
		Env:      rootEnv,
		LogLevel: rootLogLevel,
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays clean for results.
	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.Env, cfg.LogLevel)
	client := policy.NewClient(cfg.APIURL, &policy.Options{
		Timeout:         time.Duration(cfg.Timeout),
		Token:           cfg.APIToken,
		SkipSchemaCheck: cfg.SkipSchemaCheck,
		Logger:          logger,
	})

	current = &app{cfg: cfg, logger: logger, client: client}
	return nil
}
