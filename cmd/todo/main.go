// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/backend/rest"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	reg := prometheus.NewRegistry()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return rest.New(cfg.APIURL,
			rest.WithTasksPath(cfg.TasksPath),
			rest.WithRateLimit(cfg.RateLimit),
			rest.WithLogger(cfg.Log()),
			rest.WithRegisterer(reg),
		)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.Input = os.Stdin
	dispatcher.Metrics = reg

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
