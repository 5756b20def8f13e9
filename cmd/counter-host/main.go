package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"counter-contract/go-backend/internal/bootstrap/hostconfig"
	"counter-contract/go-backend/internal/composition/hostserver"
	"counter-contract/go-backend/internal/platform/privacylog"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	rpcAddr := flag.String("rpc-addr", "", "JSON-RPC listen address, host:port or multiaddr (overrides config)")
	configPath := flag.String("config", "", "Path to host.yaml (optional)")
	dataDir := flag.String("data-dir", "", "Directory for host state and storage key (optional)")
	rpcToken := flag.String("rpc-token", "", "RPC token for X-Counter-RPC-Token (optional)")
	backend := flag.String("storage", "", "Storage backend override: memory | snapshot | sqlite")
	logLevel := flag.String("log-level", "info", "Log level: debug | info | warn | error")
	flag.Parse()
	if *showVersion {
		fmt.Printf("counter-host version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	logger := slog.New(privacylog.WrapHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)})))
	slog.SetDefault(logger)

	cfg, err := hostconfig.LoadFromPath(*configPath)
	if err != nil {
		logger.Error("counter-host config failed", "error", err.Error())
		os.Exit(1)
	}
	if *rpcAddr != "" {
		cfg.ListenAddr = *rpcAddr
	}
	if *rpcToken != "" {
		cfg.RPCToken = *rpcToken
	}
	if *backend != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(*backend))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h, err := hostserver.NewHost(cfg, *dataDir, logger)
	if err != nil {
		logger.Error("counter-host failed to initialize", "error", err.Error())
		os.Exit(1)
	}

	block := h.Runtime.Block()
	logger.Info("counter-host starting",
		"addr", h.Server.Addr(),
		"chain_id", block.ChainID,
		"height", block.Height,
		"backend", cfg.Storage.Backend,
		"version", version,
	)
	runErr := h.Run(ctx)
	if err := h.Close(); err != nil {
		logger.Warn("counter-host storage close failed", "error", err.Error())
	}
	if runErr != nil {
		logger.Error("counter-host failed", "error", runErr.Error())
		os.Exit(1)
	}
	logger.Info("counter-host stopped")
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}
