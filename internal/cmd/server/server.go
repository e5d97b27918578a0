// Package server parses node store service flags and launches the service.
package server

import (
	"context"
	"flag"

	"github.com/permanode/permastore/internal/app"
	entrypoint "github.com/permanode/permastore/internal/platform/cmd"
)

// Config holds node store command configuration.
type Config struct {
	Port int `env:"PERMASTORE_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The node store gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the node store gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePermastore, func(context.Context) error {
		return app.Run(ctx, cfg.Port)
	})
}
