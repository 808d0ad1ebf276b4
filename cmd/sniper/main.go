// ====================================
// File: cmd/sniper/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dexwatch/solsniper/internal/app"
	"github.com/dexwatch/solsniper/internal/config"
	"github.com/dexwatch/solsniper/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging

	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting sniper")

	runner := app.NewRunner(cfg, log)
	if err := runner.Run(context.Background()); err != nil {
		log.Fatal("Sniper exited with error", zap.Error(err))
	}
}
