package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const hkdfInfoAccountPrefix = "counter/account/v1/"

// DeriveAccountKey derives the ed25519 key of account index from a bip39 seed.
func DeriveAccountKey(seed []byte, index int) (ed25519.PrivateKey, error) {
	if index < 0 {
		return nil, fmt.Errorf("invalid account index: %d", index)
	}
	accountSeed, err := hkdfExpand(seed, fmt.Sprintf("%s%d", hkdfInfoAccountPrefix, index), ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(accountSeed), nil
}

func hkdfExpand(seed []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
