package models

import (
	"strconv"
	"strings"
)

// Account is a dev-host account as listed over RPC. Private keys never leave
// the host keyring.
type Account struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	PublicKey []byte `json:"public_key"`
}

// CallSignature proves a mutating call was made by the holder of the key
// behind the sender address.
type CallSignature struct {
	PublicKey []byte `json:"public_key"`
	Signature []byte `json:"signature"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BlockStatus is the block a call ran in. Time is nanoseconds since the Unix
// epoch encoded as a decimal string.
type BlockStatus struct {
	Height  uint64 `json:"height"`
	Time    string `json:"time"`
	ChainID string `json:"chain_id"`
}

func (b BlockStatus) TimeNanos() (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(b.Time), 10, 64)
}

// TxResult describes a committed mutating call.
type TxResult struct {
	Entry      string      `json:"entry"`
	Method     string      `json:"method"`
	Sender     string      `json:"sender"`
	Block      BlockStatus `json:"block"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute returns the first value recorded under key.
func (r TxResult) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

type HealthStatus struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	Height      uint64 `json:"height"`
	Backend     string `json:"backend"`
}
