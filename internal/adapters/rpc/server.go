package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/platform/ratelimiter"
	"counter-contract/go-backend/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultRPCAddr = "127.0.0.1:26657"

const (
	rpcTokenHeader     = "X-Counter-RPC-Token"
	rpcRequestIDHeader = "X-Counter-Request-ID"
)

// Service is the host surface the RPC adapter drives.
type Service interface {
	Instantiate(ctx context.Context, sender string, msg contract.InstantiateMsg) (models.TxResult, error)
	Execute(ctx context.Context, sender string, msg contract.ExecuteMsg) (models.TxResult, error)
	Query(ctx context.Context, msg contract.QueryMsg) (any, error)
	Block() models.BlockStatus
	Accounts() []models.Account
	Initialized() bool
}

type Options struct {
	// RPCToken, when set, is required on /rpc and /metrics.
	RPCToken string
	// ClientLimiter throttles /rpc per token or remote address. Nil disables it.
	ClientLimiter *ratelimiter.MapLimiter
	// Gatherer backs /metrics. Nil leaves the route unregistered.
	Gatherer    prometheus.Gatherer
	BackendName string
	Logger      *slog.Logger
}

type Server struct {
	httpServer  *http.Server
	service     Service
	rpcToken    string
	rpcLimiter  *ratelimiter.MapLimiter
	backendName string
	logger      *slog.Logger
}

func NewServer(rpcAddr string, svc Service, opts Options) *Server {
	if rpcAddr == "" {
		rpcAddr = DefaultRPCAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              rpcAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		service:     svc,
		rpcToken:    strings.TrimSpace(opts.RPCToken),
		rpcLimiter:  opts.ClientLimiter,
		backendName: opts.BackendName,
		logger:      logger,
	}
	if s.rpcToken == "" {
		logger.Warn("rpc token is not set; RPC auth disabled", "component", "rpc")
	}
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/rpc", s.handleRPC)
	if opts.Gatherer != nil {
		metrics := promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			if !s.authorizeRPC(w, r) {
				return
			}
			metrics.ServeHTTP(w, r)
		})
	}
	return s
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.handleHealth(w, r)
}

func (s *Server) HandleRPC(w http.ResponseWriter, r *http.Request) {
	s.handleRPC(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.healthStatus())
}

func (s *Server) healthStatus() models.HealthStatus {
	status := models.HealthStatus{Status: "ok", Backend: s.backendName}
	if s.service == nil {
		status.Status = "unavailable"
		return status
	}
	status.Initialized = s.service.Initialized()
	status.Height = s.service.Block().Height
	return status
}

func (s *Server) authorizeRPC(w http.ResponseWriter, r *http.Request) bool {
	if s.rpcToken == "" {
		return true
	}
	if s.extractRPCToken(r) != s.rpcToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *Server) extractRPCToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get(rpcTokenHeader))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}
