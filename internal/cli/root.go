// Package cli implements the permastore command line client.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	nodestoreapi "github.com/permanode/permastore/internal/api/grpc/nodestore"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Target     string
	Token      string
	ConfigPath string
	Timeout    time.Duration
}

// NewRootCommand creates the root command for the permastore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "permastore",
		Short: "Client for the permastore node store",
		Long: `Client for the permastore scope-partitioned node store.

Scopes hold numbered binary nodes. Writing the bytes DEAD to node 0
freezes a scope: existing nodes become permanent, while empty ids
still accept new writes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigFile(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Target, "target", "localhost:8090", "node store gRPC address")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "owner token for mutations")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.permastore.yaml)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-call timeout")

	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewDelCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewFreezeCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewUsageCommand(opts))
	cmd.AddCommand(NewPutFileCommand(opts))
	cmd.AddCommand(NewGetFileCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// dial connects to the configured node store target.
func dial(ctx context.Context, opts *RootOptions) (*nodestoreapi.Client, error) {
	client, err := nodestoreapi.Dial(ctx, opts.Target, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.Target, err)
	}
	client.Token = opts.Token
	client.Timeout = opts.Timeout
	return client, nil
}
