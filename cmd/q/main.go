package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/plaimi/q/internal/adapters/config"
	"github.com/plaimi/q/internal/adapters/diagnostics"
	"github.com/plaimi/q/internal/adapters/healthcheck"
	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/application"
	"github.com/plaimi/q/internal/metrics"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	configFlag := flag.String("config", "", "path to the TOML configuration file (default: q.toml next to .env)")
	initFlag := flag.Bool("init", false, "write a configuration template and exit")
	checkFlag := flag.Bool("check", false, "validate the configuration, print it and exit")
	flag.Parse()

	envPath := config.ResolveEnvPath()
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("[WARN] Could not load .env from %s: %v", envPath, err)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = config.ResolveConfigPath(envPath)
	}

	if *initFlag {
		if err := initConfig(configPath); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		log.Printf("[INFO] Configuration template written to %s", configPath)
		return
	}

	cfgStore, err := config.NewStore(configPath)
	if err != nil {
		reportConfigError(err)
		os.Exit(1)
	}

	cfg := cfgStore.GetConfig()

	if *checkFlag {
		for _, line := range application.Summarize(cfg) {
			fmt.Println(line)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.NewFromString(cfg.LogLevel)
	logger.Infof(ctx, "q %s (commit: %s, built: %s)", version, commit, buildDate)

	collector := metrics.NewCollector()
	tracer := diagnostics.NewTracer(cfg, os.Stdout)
	runtime := application.NewRuntime(cfgStore, logger, tracer, collector)

	healthServer := healthcheck.NewHealthServer(cfg.HealthPort, runtime, collector.Handler(), logger)
	if err := healthServer.Start(ctx); err != nil {
		logger.Errorf(ctx, "Failed to start health server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- runtime.Start(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Infof(ctx, "Received signal %v, shutting down...", sig)
	case err := <-errChan:
		if err != nil {
			logger.Errorf(ctx, "Bot error: %v", err)
		}
	}

	cancel()
	runtime.Stop()
	if err := healthServer.Stop(); err != nil {
		logger.Errorf(ctx, "Health server shutdown error: %v", err)
	}
	logger.Infof(ctx, "Application terminated")
}

func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return config.WriteFile(path, config.Defaults())
}

// reportConfigError logs every field failure before the process exits.
func reportConfigError(err error) {
	problems := config.Errors(err)
	if len(problems) == 0 {
		log.Printf("[FATAL] Configuration error: %v", err)
		return
	}
	for _, p := range problems {
		log.Printf("[FATAL] %v", p)
	}
}
