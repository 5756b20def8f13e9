package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"counter-contract/go-backend/internal/identity"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageSnapshot = "snapshot"
	StorageSQLite   = "sqlite"

	DefaultListenAddr = "127.0.0.1:26657"
	DefaultChainID    = "counter-local"
)

// HostConfig is the resolved configuration of the dev host.
type HostConfig struct {
	ListenAddr string
	ChainID    string
	// Genesis is the time of block 1. Zero means "when the host first starts".
	Genesis    time.Time
	BlockStep  time.Duration

	Storage  StorageConfig
	// JoinDate is the member join-date policy: "restamp" or "preserve".
	JoinDate string

	RateLimit       RateLimitConfig
	SenderRateLimit RateLimitConfig

	RPCToken          string
	Mnemonic          string
	Accounts          int
	StrictSenders     bool
	RequireSignatures bool
}

type StorageConfig struct {
	Backend string
	Path    string
	Secret  string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// FileConfig mirrors host.yaml. Pointer and zero fields mean "keep default".
type FileConfig struct {
	Host HostSection `yaml:"host"`
}

type HostSection struct {
	ListenAddr        string         `yaml:"listenAddr"`
	ChainID           string         `yaml:"chainId"`
	Genesis           string         `yaml:"genesis"`
	BlockStep         time.Duration  `yaml:"blockStep"`
	Storage           StorageSection `yaml:"storage"`
	JoinDate          string         `yaml:"joinDate"`
	RateLimit         LimitSection   `yaml:"rateLimit"`
	SenderRateLimit   LimitSection   `yaml:"senderRateLimit"`
	RPCToken          string         `yaml:"rpcToken"`
	Mnemonic          string         `yaml:"mnemonic"`
	Accounts          int            `yaml:"accounts"`
	StrictSenders     *bool          `yaml:"strictSenders"`
	RequireSignatures *bool          `yaml:"requireSignatures"`
}

type StorageSection struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Secret  string `yaml:"secret"`
}

type LimitSection struct {
	Enabled *bool   `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

func DefaultConfig() HostConfig {
	return HostConfig{
		ListenAddr: DefaultListenAddr,
		ChainID:    DefaultChainID,
		BlockStep:  5 * time.Second,
		Storage:    StorageConfig{Backend: StorageMemory},
		JoinDate:   "restamp",
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
		SenderRateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     5,
			Burst:   10,
		},
		Accounts: 4,
	}
}

// LoadFromPath reads configPath, or the first readable default candidate when
// configPath is empty, merges it over the defaults and applies environment
// overrides. A missing explicit file is an error; missing candidates are not.
func LoadFromPath(configPath string) (HostConfig, error) {
	cfg := DefaultConfig()

	candidates := []string{"go-backend/configs/host.yaml", "configs/host.yaml"}
	explicit := strings.TrimSpace(configPath) != ""
	if explicit {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return HostConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return HostConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := Merge(&cfg, parsed.Host); err != nil {
			return HostConfig{}, fmt.Errorf("config %s: %w", path, err)
		}
		break
	}

	ApplyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return HostConfig{}, err
	}
	return cfg, nil
}

func Merge(dst *HostConfig, src HostSection) error {
	if src.ListenAddr != "" {
		dst.ListenAddr = strings.TrimSpace(src.ListenAddr)
	}
	if src.ChainID != "" {
		dst.ChainID = strings.TrimSpace(src.ChainID)
	}
	if src.Genesis != "" {
		genesis, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(src.Genesis))
		if err != nil {
			return fmt.Errorf("invalid genesis time: %w", err)
		}
		dst.Genesis = genesis.UTC()
	}
	if src.BlockStep != 0 {
		dst.BlockStep = src.BlockStep
	}
	if src.Storage.Backend != "" {
		dst.Storage.Backend = strings.ToLower(strings.TrimSpace(src.Storage.Backend))
	}
	if src.Storage.Path != "" {
		dst.Storage.Path = src.Storage.Path
	}
	if src.Storage.Secret != "" {
		dst.Storage.Secret = src.Storage.Secret
	}
	if src.JoinDate != "" {
		dst.JoinDate = strings.ToLower(strings.TrimSpace(src.JoinDate))
	}
	mergeLimit(&dst.RateLimit, src.RateLimit)
	mergeLimit(&dst.SenderRateLimit, src.SenderRateLimit)
	if src.RPCToken != "" {
		dst.RPCToken = src.RPCToken
	}
	if src.Mnemonic != "" {
		dst.Mnemonic = src.Mnemonic
	}
	if src.Accounts != 0 {
		dst.Accounts = src.Accounts
	}
	if src.StrictSenders != nil {
		dst.StrictSenders = *src.StrictSenders
	}
	if src.RequireSignatures != nil {
		dst.RequireSignatures = *src.RequireSignatures
	}
	return nil
}

func mergeLimit(dst *RateLimitConfig, src LimitSection) {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.RPS != 0 {
		dst.RPS = src.RPS
	}
	if src.Burst != 0 {
		dst.Burst = src.Burst
	}
}

var (
	ErrInvalidStorageBackend = errors.New("storage backend must be memory, snapshot or sqlite")
	ErrInvalidJoinDate       = errors.New("join date policy must be restamp or preserve")
	ErrInvalidRateLimit      = errors.New("enabled rate limits need positive rps and burst")
	ErrStrictSendersNoKeys   = errors.New("strict senders need at least one account")
	ErrInvalidMnemonic       = errors.New("mnemonic is not a valid bip39 phrase")
)

// Validate checks cfg. Storage path and secret may stay empty: the host then
// places state in its data directory and keeps the secret in storage.key.
func (c HostConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageSnapshot, StorageSQLite:
	default:
		return ErrInvalidStorageBackend
	}
	for _, limit := range []RateLimitConfig{c.RateLimit, c.SenderRateLimit} {
		if limit.Enabled && (limit.RPS <= 0 || limit.Burst <= 0) {
			return ErrInvalidRateLimit
		}
	}
	switch c.JoinDate {
	case "restamp", "preserve":
	default:
		return ErrInvalidJoinDate
	}
	if strings.TrimSpace(c.ChainID) == "" {
		return errors.New("chain id is required")
	}
	if c.BlockStep < 0 {
		return errors.New("block step must not be negative")
	}
	if c.Accounts < 0 {
		return errors.New("accounts must not be negative")
	}
	if c.StrictSenders && c.Accounts == 0 {
		return ErrStrictSendersNoKeys
	}
	if strings.TrimSpace(c.Mnemonic) != "" && !identity.ValidateMnemonic(strings.TrimSpace(c.Mnemonic)) {
		return ErrInvalidMnemonic
	}
	if _, err := ResolveListenAddr(c.ListenAddr); err != nil {
		return err
	}
	return nil
}
