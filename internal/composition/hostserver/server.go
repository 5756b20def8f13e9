package hostserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"counter-contract/go-backend/internal/adapters/rpc"
	"counter-contract/go-backend/internal/bootstrap/hostconfig"
	"counter-contract/go-backend/internal/domains/registry"
	"counter-contract/go-backend/internal/host"
	"counter-contract/go-backend/internal/identity"
	"counter-contract/go-backend/internal/platform/ratelimiter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const limiterSweepInterval = time.Minute

// Host is a wired dev host: runtime plus its RPC transport.
type Host struct {
	Server  *rpc.Server
	Runtime *host.Runtime

	clientLimiter *ratelimiter.MapLimiter
	senderLimiter *ratelimiter.MapLimiter
	logger        *slog.Logger
}

// Run serves RPC until ctx is done and evicts idle rate limit buckets
// in the background.
func (h *Host) Run(ctx context.Context) error {
	go h.sweepLimiters(ctx, limiterSweepInterval)
	return h.Server.Run(ctx)
}

func (h *Host) sweepLimiters(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

func (h *Host) sweep(now time.Time) {
	h.clientLimiter.Sweep(now)
	h.senderLimiter.Sweep(now)
	h.logger.Debug("rate limit buckets swept",
		"component", "hostserver",
		"client_buckets", h.clientLimiter.Len(),
		"sender_buckets", h.senderLimiter.Len(),
	)
}

func (h *Host) Close() error {
	if h == nil || h.Runtime == nil {
		return nil
	}
	return h.Runtime.Close()
}

// NewHost wires storage, keyring, metrics, runtime and RPC server from cfg.
func NewHost(cfg hostconfig.HostConfig, dataDir string, logger *slog.Logger) (*Host, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	listenAddr, err := hostconfig.ResolveListenAddr(cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	joinDate, err := registry.ParseJoinDatePolicy(cfg.JoinDate)
	if err != nil {
		return nil, err
	}
	keyring, err := buildKeyring(cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := host.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	backend, err := BuildBackend(cfg, dataDir)
	if err != nil {
		return nil, err
	}
	clientLimiter := limiterFor(cfg.RateLimit)
	senderLimiter := limiterFor(cfg.SenderRateLimit)
	runtime, err := host.NewRuntime(backend, host.Config{
		ChainID:           cfg.ChainID,
		Genesis:           cfg.Genesis,
		BlockStep:         cfg.BlockStep,
		JoinDate:          joinDate,
		Keyring:           keyring,
		StrictSenders:     cfg.StrictSenders,
		RequireSignatures: cfg.RequireSignatures,
		SenderLimiter:     senderLimiter,
		Logger:            logger,
		Metrics:           metrics,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	server := rpc.NewServer(listenAddr, runtime, rpc.Options{
		RPCToken:      cfg.RPCToken,
		ClientLimiter: clientLimiter,
		Gatherer:      reg,
		BackendName:   cfg.Storage.Backend,
		Logger:        logger,
	})
	logger.Info("host wired",
		"component", "hostserver",
		"chain_id", cfg.ChainID,
		"backend", cfg.Storage.Backend,
		"listen_addr", listenAddr,
		"height", runtime.Block().Height,
		"accounts", len(runtime.Accounts()),
	)
	return &Host{
		Server:        server,
		Runtime:       runtime,
		clientLimiter: clientLimiter,
		senderLimiter: senderLimiter,
		logger:        logger,
	}, nil
}

// buildKeyring derives dev accounts from the configured mnemonic. Without one
// a throwaway mnemonic is generated, so accounts change on every start.
func buildKeyring(cfg hostconfig.HostConfig, logger *slog.Logger) (*identity.Keyring, error) {
	if cfg.Accounts == 0 {
		return nil, nil
	}
	mnemonic := strings.TrimSpace(cfg.Mnemonic)
	if mnemonic == "" {
		generated, err := identity.NewMnemonic()
		if err != nil {
			return nil, err
		}
		mnemonic = generated
		logger.Warn("no mnemonic configured; dev accounts are ephemeral", "component", "hostserver")
	}
	keyring, err := identity.NewKeyring(mnemonic, cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("build keyring: %w", err)
	}
	return keyring, nil
}

func limiterFor(cfg hostconfig.RateLimitConfig) *ratelimiter.MapLimiter {
	if !cfg.Enabled {
		return nil
	}
	return ratelimiter.New(cfg.RPS, cfg.Burst, 10*time.Minute)
}
