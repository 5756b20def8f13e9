package contract

import (
	"encoding/json"
	"errors"
	"fmt"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

const (
	ContractName    = "crates.io:counter"
	ContractVersion = "0.1.0"

	contractInfoKey = "contract_info"
)

var ErrContractVersionMissing = errors.New("contract version info not found")

type versionInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

func setContractVersion(storage ports.Storage, name, version string) error {
	raw, err := json.Marshal(versionInfo{Contract: name, Version: version})
	if err != nil {
		return err
	}
	storage.Set([]byte(contractInfoKey), raw)
	return nil
}

func getContractVersion(storage ports.Storage) (versionInfo, error) {
	raw := storage.Get([]byte(contractInfoKey))
	if raw == nil {
		return versionInfo{}, ErrContractVersionMissing
	}
	var info versionInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return versionInfo{}, fmt.Errorf("contract version payload is invalid: %w", err)
	}
	return info, nil
}
