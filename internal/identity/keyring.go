package identity

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrMnemonicRequired = errors.New("mnemonic is required")
	ErrUnknownAccount   = errors.New("unknown account")
)

// MaxAccounts bounds how many accounts one keyring derives.
const MaxAccounts = 64

// Account is one derived dev-host account.
type Account struct {
	Name      string
	Address   string
	PublicKey ed25519.PublicKey
}

// Keyring holds accounts derived from a single mnemonic. Private keys never
// leave the keyring; callers sign through it.
type Keyring struct {
	mu       sync.RWMutex
	accounts []Account
	keys     map[string]ed25519.PrivateKey
}

// NewMnemonic returns a fresh 24-word bip39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(strings.TrimSpace(mnemonic))
}

// NewKeyring derives count accounts named account0, account1, ...
func NewKeyring(mnemonic string, count int) (*Keyring, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if count <= 0 || count > MaxAccounts {
		return nil, fmt.Errorf("account count must be in [1, %d], got %d", MaxAccounts, count)
	}

	seed := bip39.NewSeed(mnemonic, "")
	defer zeroBytes(seed)
	k := &Keyring{
		accounts: make([]Account, 0, count),
		keys:     make(map[string]ed25519.PrivateKey, count),
	}
	for i := 0; i < count; i++ {
		priv, err := DeriveAccountKey(seed, i)
		if err != nil {
			return nil, err
		}
		pub := priv.Public().(ed25519.PublicKey)
		addr, err := BuildAddress(pub)
		if err != nil {
			return nil, err
		}
		k.accounts = append(k.accounts, Account{
			Name:      fmt.Sprintf("account%d", i),
			Address:   addr,
			PublicKey: append(ed25519.PublicKey(nil), pub...),
		})
		k.keys[addr] = priv
	}
	return k, nil
}

// Accounts returns the accounts in derivation order.
func (k *Keyring) Accounts() []Account {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]Account, len(k.accounts))
	for i, a := range k.accounts {
		a.PublicKey = append(ed25519.PublicKey(nil), a.PublicKey...)
		out[i] = a
	}
	return out
}

// Resolve maps an account name or address to the account.
func (k *Keyring) Resolve(nameOrAddress string) (Account, error) {
	nameOrAddress = strings.TrimSpace(nameOrAddress)
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, a := range k.accounts {
		if a.Name == nameOrAddress || a.Address == nameOrAddress {
			a.PublicKey = append(ed25519.PublicKey(nil), a.PublicKey...)
			return a, nil
		}
	}
	return Account{}, ErrUnknownAccount
}

func (k *Keyring) Sign(address string, payload []byte) ([]byte, error) {
	k.mu.RLock()
	priv, ok := k.keys[address]
	k.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownAccount
	}
	return ed25519.Sign(priv, payload), nil
}

// Verify checks a signature produced by Sign for the account at address.
func Verify(publicKey ed25519.PublicKey, address string, payload, sig []byte) (bool, error) {
	ok, err := VerifyAddress(address, publicKey)
	if err != nil || !ok {
		return false, err
	}
	return ed25519.Verify(publicKey, payload, sig), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
