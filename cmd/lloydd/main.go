// Command lloydd serves the lloyd K-Means engine over HTTP.
//
// Usage:
//
//	lloydd [-config lloyd.yaml] [-env .env] [-addr :3000]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lloyd/config"
	"github.com/hupe1980/lloyd/server"
)

var (
	configPath = flag.String("config", "", "Path to a YAML configuration file")
	envFile    = flag.String("env", ".env", "Path to a .env file (ignored if missing)")
	addr       = flag.String("addr", "", "Listen address (overrides configuration)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lloydd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := cfg.Log.NewLogger()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Listen(cfg.Server.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
