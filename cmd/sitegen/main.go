package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/server"
	"git.home.luguber.info/inful/sitegen/internal/site"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	Source  string `short:"s" help:"Source documents directory (overrides config)"`
	Output  string `short:"o" help:"Output directory for the generated site (overrides config)"`

	Build struct{} `cmd:"" help:"Render all markdown documents into the output directory"`

	Serve struct {
		Port int `short:"p" help:"HTTP port (overrides config)"`
	} `cmd:"" help:"Build once, then serve the generated site"`

	Dev struct {
		Port int `short:"p" help:"HTTP port (overrides config)"`
	} `cmd:"" help:"Serve the site and rebuild on every source change"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}
	applyFlags(cfg)

	switch ctx.Command() {
	case "build":
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "serve":
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", logfields.Error(err))
			os.Exit(1)
		}
	case "dev":
		if err := runDev(cfg); err != nil {
			slog.Error("Dev mode failed", logfields.Error(err))
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", slog.String("command", ctx.Command()))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if CLI.Source != "" {
		cfg.Source = CLI.Source
	}
	if CLI.Output != "" {
		cfg.Output = CLI.Output
	}
	if CLI.Serve.Port != 0 {
		cfg.Server.Port = CLI.Serve.Port
	}
	if CLI.Dev.Port != 0 {
		cfg.Server.Port = CLI.Dev.Port
	}
}

// runBuild performs one synchronous build pass.
func runBuild(cfg *config.Config) error {
	report, err := site.NewBuilder(cfg).Run(context.Background())
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		slog.Warn("Build completed with skipped documents", slog.Int("failed", report.Failed))
	}
	return nil
}

// runServe builds once, then serves the output directory until interrupted.
func runServe(cfg *config.Config) error {
	if err := runBuild(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg.Output, cfg.Server.Port, cfg.Server.MaxPortRetries)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return shutdownServer(srv)
}

// runDev builds once, starts the watch orchestrator on its own goroutine and
// then the HTTP server. If the server fails to start the watcher's context is
// canceled so the process exits cleanly instead of leaking the watch loop.
func runDev(cfg *config.Config) error {
	if err := runBuild(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	builder := site.NewBuilder(cfg)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watch.New(cfg.Source, builder).Run(ctx)
	}()

	srv := server.New(cfg.Output, cfg.Server.Port, cfg.Server.MaxPortRetries)
	if err := srv.Start(ctx); err != nil {
		cancel()
		<-watchErr
		return fmt.Errorf("start server: %w", err)
	}

	select {
	case err := <-watchErr:
		// Watch establishment failure is fatal for dev mode.
		_ = shutdownServer(srv)
		if err != nil {
			return fmt.Errorf("watch source directory: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownErr := shutdownServer(srv)
		<-watchErr
		return shutdownErr
	}
}

func shutdownServer(srv *server.Server) error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
		return err
	}
	return nil
}
