// ABOUTME: Entry point for the background music player
// ABOUTME: Parses CLI flags and config, then starts the TUI or console surface
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/Sendspin/bgmusic/internal/config"
	"github.com/Sendspin/bgmusic/internal/console"
	"github.com/Sendspin/bgmusic/internal/fetch"
	"github.com/Sendspin/bgmusic/internal/logging"
	"github.com/Sendspin/bgmusic/internal/ui"
	"github.com/Sendspin/bgmusic/internal/version"
	"github.com/Sendspin/bgmusic/pkg/audio/output"
	"github.com/Sendspin/bgmusic/pkg/media"
	"go.uber.org/zap"
)

var (
	configPath  = flag.String("config", "", "YAML config file")
	src         = flag.String("src", "", "Audio resource to loop (path, file:// or http(s):// URL)")
	autoplay    = flag.Bool("autoplay", false, "Start the music as soon as the player is up")
	allowAuto   = flag.Bool("allow-autoplay", false, "Allow playback before the first key press")
	logFile     = flag.String("log-file", config.DefaultLogFile, "Log file path")
	cacheDir    = flag.String("cache-dir", "", "Directory for downloaded tracks (default: system temp)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use the line console with streaming logs")
	streamLogs  = flag.Bool("stream-logs", false, "Alias for -no-tui")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	useTUI := !cfg.NoTUI

	// TUI mode: log only to file. Console mode: stdout and file.
	logger, err := logging.New(logging.Options{
		File:   cfg.LogFile,
		Stdout: !useTUI,
		Debug:  cfg.Debug,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()
	defer zap.RedirectStdLog(logger)()

	sugar := logger.Sugar()
	sugar.Infof("Starting %s %s", version.Product, version.Version)
	sugar.Infof("Track: %s", cfg.Source)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	element := media.NewElement(cfg.Source, media.Options{
		Autoplay: cfg.AllowAutoplay,
		Output:   output.NewOto(logger),
		Resolver: fetch.New(cfg.CacheDir, logger),
		Logger:   logger,
	})
	defer func() {
		if err := element.Close(); err != nil {
			sugar.Errorf("Error closing player: %v", err)
		}
		sugar.Infof("Player stopped")
	}()

	if useTUI {
		runTUI(ctx, cfg, element, logger)
		return
	}

	c := console.New(console.Config{
		Handle:    element,
		Activator: element,
		Autoplay:  cfg.Autoplay,
		Logger:    logger,
	})
	if err := c.Run(ctx); err != nil {
		sugar.Errorf("Console error: %v", err)
	}
}

// runTUI blocks until the user quits or a shutdown signal arrives
func runTUI(ctx context.Context, cfg config.Config, element *media.Element, logger *zap.Logger) {
	m := ui.New(ui.Config{
		Handle:    element,
		Activator: element,
		Source:    cfg.Source,
		Autoplay:  cfg.Autoplay,
		Logger:    logger,
	})

	tuiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := ui.Run(tuiCtx, m)

	go func() {
		<-tuiCtx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		logger.Sugar().Errorf("TUI error: %v", err)
	}

	if ctx.Err() != nil {
		logger.Sugar().Infof("Shutdown signal received")
	}

	// No-ops when the user quit from the TUI
	m.Control().Unmount()
	m.Loop().Close()
}

// loadConfig layers explicitly set flags over the config file
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "src":
			cfg.Source = *src
		case "autoplay":
			cfg.Autoplay = *autoplay
		case "allow-autoplay":
			cfg.AllowAutoplay = *allowAuto
		case "log-file":
			cfg.LogFile = *logFile
		case "cache-dir":
			cfg.CacheDir = *cacheDir
		case "no-tui", "stream-logs":
			cfg.NoTUI = *noTUI || *streamLogs
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
