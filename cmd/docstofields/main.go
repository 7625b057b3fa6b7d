package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/adrianliechti/docstofields/config"
	"github.com/adrianliechti/docstofields/pkg/extract"
	"github.com/adrianliechti/docstofields/pkg/pipeline"
	"github.com/adrianliechti/docstofields/pkg/viewer"
	"github.com/adrianliechti/docstofields/server/api"
)

func main() {
	var configPath string
	var addr string
	var logLevel string

	pflag.StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	pflag.StringVar(&addr, "addr", "", "listen address (overrides configuration)")
	pflag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	pflag.Parse()

	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Parse(configPath)

	if err != nil {
		logger.Error("error parsing configuration", "error", err)
		os.Exit(1)
	}

	if addr != "" {
		cfg.Addr = addr
	}

	service := extract.NewService(cfg.Extractor(),
		extract.WithLogger(logger),
	)

	p := pipeline.New(service,
		pipeline.WithSettings(pipeline.Settings{
			Key:   cfg.Key(),
			Model: cfg.Model,

			EnableTextract: cfg.EnableTextract,

			AIConfig: aiConfig(cfg),
		}),
		pipeline.WithLogger(logger),
	)

	channel := viewer.NewChannel(viewer.Config{
		Store: viewer.NewFileStore(cfg.StatePath),

		Handshake: p.Handshake,

		Logger: logger,
	}, p.Documents(), p.FieldModel())

	p.AttachViewer(channel)

	handler := api.New(cfg, service,
		api.WithChannel(channel),
		api.WithLogger(logger),
	)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler.Router(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", cfg.Addr, "provider", cfg.Provider, "model", cfg.Model)

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func aiConfig(cfg *config.Config) *extract.AIConfig {
	if cfg.Provider != "azure" {
		return nil
	}

	return &extract.AIConfig{
		Provider: cfg.Provider,

		AzureEndpoint:   cfg.AzureEndpoint,
		AzureDeployment: cfg.AzureDeployment,
		AzureAPIVersion: cfg.AzureAPIVersion,
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: l,
	}))
}
