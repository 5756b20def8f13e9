package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/domains/contracts/ports"
	"counter-contract/go-backend/internal/domains/registry"
	"counter-contract/go-backend/internal/identity"
	"counter-contract/go-backend/internal/platform/ratelimiter"
	"counter-contract/go-backend/internal/storage"
	"counter-contract/go-backend/pkg/models"
)

const (
	EntryInstantiate = "instantiate"
	EntryExecute     = "execute"
	EntryQuery       = "query"

	DefaultContractAddress = "counter1contract"
)

var (
	ErrSenderRequired    = errors.New("sender is required")
	ErrUnknownSender     = errors.New("sender is not a keyring account")
	ErrSenderRateLimited = errors.New("sender rate limit exceeded")
	ErrRuntimeClosed     = errors.New("runtime is closed")
)

type Config struct {
	ChainID         string
	ContractAddress string
	// Genesis is the time of block 1; zero means now.
	Genesis   time.Time
	BlockStep time.Duration
	JoinDate  registry.JoinDatePolicy

	// Keyring, when set, lets callers name senders by account name. With
	// StrictSenders only keyring accounts may send.
	Keyring       *identity.Keyring
	StrictSenders bool
	// RequireSignatures rejects mutating calls that carry no signature.
	RequireSignatures bool
	SenderLimiter     *ratelimiter.MapLimiter

	Logger  *slog.Logger
	Metrics *Metrics
	Now     func() time.Time
}

// Runtime is the development host. It owns the backend and runs one contract
// call at a time: each mutating call executes against a CacheStore that is
// committed when the contract succeeds and discarded when it fails.
type Runtime struct {
	mu                sync.RWMutex
	backend           storage.Backend
	contract          *contract.Contract
	clock             *BlockClock
	address           string
	keyring           *identity.Keyring
	strict            bool
	requireSignatures bool
	limiter           *ratelimiter.MapLimiter
	logger            *slog.Logger
	metrics           *Metrics
	now               func() time.Time
	closed            bool
}

func NewRuntime(backend storage.Backend, cfg Config) (*Runtime, error) {
	if backend == nil {
		return nil, errors.New("runtime backend is required")
	}
	joinDate, err := registry.ParseJoinDatePolicy(string(cfg.JoinDate))
	if err != nil {
		return nil, err
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	genesis := cfg.Genesis
	if genesis.IsZero() {
		genesis = now().UTC().Truncate(time.Second)
	}
	address := strings.TrimSpace(cfg.ContractAddress)
	if address == "" {
		address = DefaultContractAddress
	}

	r := &Runtime{
		backend:           backend,
		contract:          contract.New(contract.Options{JoinDate: joinDate}),
		clock:             NewBlockClock(cfg.ChainID, genesis, cfg.BlockStep),
		address:           address,
		keyring:           cfg.Keyring,
		strict:            cfg.StrictSenders,
		requireSignatures: cfg.RequireSignatures,
		limiter:           cfg.SenderLimiter,
		logger:            logger,
		metrics:           cfg.Metrics,
		now:               now,
	}
	if err := r.restoreClock(); err != nil {
		return nil, err
	}
	r.metrics.setHeight(r.clock.Current().Height)
	return r, nil
}

func (r *Runtime) restoreClock() error {
	raw, ok, err := r.backend.Load(blockKey)
	if err != nil {
		return fmt.Errorf("load block header: %w", err)
	}
	if !ok {
		return nil
	}
	block, err := decodeBlock(raw)
	if err != nil {
		return err
	}
	if err := r.clock.Restore(block); err != nil {
		return fmt.Errorf("restore block header for chain %q: %w", r.clock.Current().ChainID, err)
	}
	return nil
}

func (r *Runtime) Instantiate(ctx context.Context, sender string, msg contract.InstantiateMsg) (models.TxResult, error) {
	return r.mutate(ctx, EntryInstantiate, "instantiate", sender, msg, func(store ports.Storage, env ports.Env, info ports.MessageInfo) (*contract.Response, error) {
		return r.contract.Instantiate(store, env, info, msg)
	})
}

func (r *Runtime) Execute(ctx context.Context, sender string, msg contract.ExecuteMsg) (models.TxResult, error) {
	method, err := msg.Kind()
	if err != nil {
		method = "unknown"
	}
	return r.mutate(ctx, EntryExecute, method, sender, msg, func(store ports.Storage, env ports.Env, info ports.MessageInfo) (*contract.Response, error) {
		return r.contract.Execute(store, env, info, msg)
	})
}

// Query answers msg against committed state. Nothing it does is persisted.
func (r *Runtime) Query(ctx context.Context, msg contract.QueryMsg) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	method, kindErr := msg.Kind()
	if kindErr != nil {
		method = "unknown"
	}
	correlationID := CorrelationID(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrRuntimeClosed
	}
	started := time.Now()
	cache := storage.NewCacheStore(r.backend)
	env := r.env(r.clock.Current())
	result, err := r.contract.Query(cache, env, msg)
	if err == nil {
		err = readFailure(cache)
	}
	cache.Discard()
	if err != nil {
		category := contracts.ErrorCategory(err)
		r.metrics.observeCall(EntryQuery, method, category, time.Since(started))
		r.logWarn(EntryQuery+"."+method, correlationID, "query rejected", "category", category, "error", err.Error())
		return nil, err
	}
	r.metrics.observeCall(EntryQuery, method, "ok", time.Since(started))
	return result, nil
}

// Block returns the last committed block header.
func (r *Runtime) Block() models.BlockStatus {
	return blockStatus(r.clock.Current())
}

func (r *Runtime) ContractAddress() string {
	return r.address
}

// Accounts lists the keyring accounts, or nothing when no keyring is loaded.
func (r *Runtime) Accounts() []models.Account {
	if r.keyring == nil {
		return []models.Account{}
	}
	accounts := r.keyring.Accounts()
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, models.Account{Name: a.Name, Address: a.Address, PublicKey: a.PublicKey})
	}
	return out
}

// Initialized reports whether instantiate has committed. It neither logs nor
// counts, so health probes stay out of call metrics.
func (r *Runtime) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	cache := storage.NewCacheStore(r.backend)
	defer cache.Discard()
	_, err := r.contract.QueryCount(cache)
	return err == nil && cache.Err() == nil
}

func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.backend.Close()
}

type contractCall func(store ports.Storage, env ports.Env, info ports.MessageInfo) (*contract.Response, error)

// mutate runs call as one transaction. msg is only used to check the
// caller's signature.
func (r *Runtime) mutate(ctx context.Context, entry, method, sender string, msg any, call contractCall) (models.TxResult, error) {
	if err := ctx.Err(); err != nil {
		return models.TxResult{}, err
	}
	operation := entry + "." + method
	correlationID := CorrelationID(ctx)

	sender, err := r.resolveSender(sender)
	if err != nil {
		r.metrics.observeCall(entry, method, contracts.ErrorCategoryAuth, 0)
		r.logWarn(operation, correlationID, "sender rejected", "sender", sender, "error", err.Error())
		return models.TxResult{}, err
	}
	if err := r.authenticate(ctx, entry, sender, msg); err != nil {
		r.metrics.observeCall(entry, method, contracts.ErrorCategory(err), 0)
		r.logWarn(operation, correlationID, "signature rejected", "sender", sender, "error", err.Error())
		return models.TxResult{}, err
	}
	if !r.limiter.Allow(sender, r.now()) {
		r.metrics.observeCall(entry, method, "rate_limited", 0)
		r.logWarn(operation, correlationID, "sender rate limited", "sender", sender)
		return models.TxResult{}, contracts.WrapCategorizedError(contracts.ErrorCategoryAPI, ErrSenderRateLimited)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.TxResult{}, ErrRuntimeClosed
	}

	started := time.Now()
	block := r.clock.Next()
	cache := storage.NewCacheStore(r.backend)
	resp, err := call(cache, r.env(block), ports.MessageInfo{Sender: sender})
	if err == nil {
		err = readFailure(cache)
	}
	if err == nil {
		err = r.commit(cache, block)
	}
	if err != nil {
		cache.Discard()
		category := contracts.ErrorCategory(err)
		r.metrics.observeCall(entry, method, category, time.Since(started))
		r.recordErrorWithContext(category, err, operation, correlationID, "sender", sender, "height", block.Height)
		return models.TxResult{}, err
	}

	r.clock.Commit(block)
	r.metrics.observeCall(entry, method, "ok", time.Since(started))
	r.metrics.setHeight(block.Height)
	result := models.TxResult{
		Entry:      entry,
		Method:     method,
		Sender:     sender,
		Block:      blockStatus(block),
		Attributes: attributes(resp),
	}
	r.logInfo(operation, correlationID, "contract call committed", "sender", sender, "height", block.Height, "attributes", len(result.Attributes))
	return result, nil
}

func (r *Runtime) commit(cache *storage.CacheStore, block ports.BlockInfo) error {
	raw, err := encodeBlock(block)
	if err != nil {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryStorage, err)
	}
	cache.Set(blockKey, raw)
	if err := cache.Commit(); err != nil {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryStorage, err)
	}
	return nil
}

func (r *Runtime) resolveSender(sender string) (string, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return "", contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, ErrSenderRequired)
	}
	if r.keyring == nil {
		return sender, nil
	}
	account, err := r.keyring.Resolve(sender)
	if err == nil {
		return account.Address, nil
	}
	if r.strict {
		return sender, contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, ErrUnknownSender)
	}
	return sender, nil
}

func (r *Runtime) env(block ports.BlockInfo) ports.Env {
	return ports.Env{
		Block:    block,
		Contract: ports.ContractInfo{Address: r.address},
	}
}

func readFailure(cache *storage.CacheStore) error {
	if err := cache.Err(); err != nil {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryStorage, err)
	}
	return nil
}

func blockStatus(b ports.BlockInfo) models.BlockStatus {
	return models.BlockStatus{
		Height:  b.Height,
		Time:    fmt.Sprintf("%d", b.Time.Nanos()),
		ChainID: b.ChainID,
	}
}

func attributes(resp *contract.Response) []models.Attribute {
	if resp == nil {
		return []models.Attribute{}
	}
	out := make([]models.Attribute, 0, len(resp.Attributes))
	for _, attr := range resp.Attributes {
		out = append(out, models.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return out
}
