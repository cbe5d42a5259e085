// Command mapserver runs the map REST API and serves the game client.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/config"
	"github.com/fairwaylab/greenside/internal/logger"
	"github.com/fairwaylab/greenside/internal/mapserver"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := mapserver.NewStore(cfg.MapServer.MapsDir)
	if err != nil {
		logger.Fatal("open map store", zap.Error(err))
	}

	srv := mapserver.New(store, cfg.MapServer.StaticDir)
	if err := srv.Run(cfg.MapServer.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
