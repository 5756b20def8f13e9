package hostconfig

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "COUNTER_HOST_"

// ApplyEnvOverrides applies COUNTER_HOST_* variables over cfg. Unparseable
// values keep the current setting.
func ApplyEnvOverrides(cfg *HostConfig) {
	if v := envString(envPrefix + "LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := envString(envPrefix + "CHAIN_ID"); v != "" {
		cfg.ChainID = v
	}
	cfg.BlockStep = envDurationWithFallback(envPrefix+"BLOCK_STEP", cfg.BlockStep)
	if v := envString(envPrefix + "STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := envString(envPrefix + "STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := envString(envPrefix + "STORAGE_SECRET"); v != "" {
		cfg.Storage.Secret = v
	}
	if v := envString(envPrefix + "JOIN_DATE"); v != "" {
		cfg.JoinDate = strings.ToLower(v)
	}
	cfg.RateLimit.Enabled = envBoolWithFallback(envPrefix+"RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RPS = envFloatWithFallback(envPrefix+"RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = envIntWithFallback(envPrefix+"RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.SenderRateLimit.Enabled = envBoolWithFallback(envPrefix+"SENDER_RATE_LIMIT_ENABLED", cfg.SenderRateLimit.Enabled)
	if v := envString(envPrefix + "RPC_TOKEN"); v != "" {
		cfg.RPCToken = v
	}
	if v := envString(envPrefix + "MNEMONIC"); v != "" {
		cfg.Mnemonic = v
	}
	cfg.Accounts = envIntWithFallback(envPrefix+"ACCOUNTS", cfg.Accounts)
	cfg.StrictSenders = envBoolWithFallback(envPrefix+"STRICT_SENDERS", cfg.StrictSenders)
	cfg.RequireSignatures = envBoolWithFallback(envPrefix+"REQUIRE_SIGNATURES", cfg.RequireSignatures)
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envBoolWithFallback(key string, fallback bool) bool {
	switch strings.ToLower(envString(key)) {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envIntWithFallback(key string, fallback int) int {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloatWithFallback(key string, fallback float64) float64 {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDurationWithFallback(key string, fallback time.Duration) time.Duration {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
