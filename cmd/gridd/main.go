package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"gridchain/config"
	"gridchain/core"
	"gridchain/observability/logging"
	"gridchain/rpc"
	"gridchain/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis JSON file (overrides config GenesisFile)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("GRID_ENV"))
	logger := logging.Setup("gridd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	node := core.NewNode(db)

	genesisPath := strings.TrimSpace(*genesisFlag)
	if genesisPath == "" {
		genesisPath = strings.TrimSpace(cfg.GenesisFile)
	}
	if genesisPath != "" {
		spec, err := core.LoadGenesisSpec(genesisPath)
		if err != nil {
			logger.Error("Failed to load genesis spec", slog.String("path", genesisPath), slog.Any("error", err))
			os.Exit(1)
		}
		if err := node.ApplyGenesis(spec); err != nil {
			logger.Error("Failed to apply genesis spec", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Genesis applied", slog.String("network", spec.NetworkName))
	}

	if cfg.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil {
				logger.Error("Metrics server stopped", slog.Any("error", err))
			}
		}()
		logger.Info("Metrics server listening", slog.String("address", cfg.MetricsAddress))
	}

	server := rpc.NewServer(node)
	logger.Info("RPC server listening",
		slog.String("address", cfg.RPCAddress),
		slog.String("network", cfg.NetworkName))
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
