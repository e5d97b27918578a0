// Package main is the permastore command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/permanode/permastore/internal/cli"
	"github.com/permanode/permastore/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		config.Exitf("error: %v", err)
	}
}
