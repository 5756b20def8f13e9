package identity

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

// AddressPrefix marks dev-host account addresses.
const AddressPrefix = "counter1"

var ErrInvalidAddress = errors.New("invalid account address")

// BuildAddress derives an account address from an ed25519 public key.
func BuildAddress(publicKey []byte) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("invalid public key size: %d", len(publicKey))
	}
	h := blake2b.Sum256(publicKey)
	return AddressPrefix + base58.Encode(h[:]), nil
}

// VerifyAddress reports whether address belongs to publicKey.
func VerifyAddress(address string, publicKey []byte) (bool, error) {
	expected, err := BuildAddress(publicKey)
	if err != nil {
		return false, err
	}
	return address == expected, nil
}

// ValidateAddress checks the shape of a dev-host address: prefix plus a
// base58 encoded 32-byte hash.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, AddressPrefix) {
		return ErrInvalidAddress
	}
	raw, err := base58.Decode(strings.TrimPrefix(address, AddressPrefix))
	if err != nil || len(raw) != blake2b.Size256 {
		return ErrInvalidAddress
	}
	return nil
}
