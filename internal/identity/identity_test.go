package identity

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestBuildAddressShape(t *testing.T) {
	pub := make([]byte, ed25519.PublicKeySize)
	addr, err := BuildAddress(pub)
	if err != nil {
		t.Fatalf("build address failed: %v", err)
	}
	if !strings.HasPrefix(addr, AddressPrefix) {
		t.Fatalf("unexpected prefix: %s", addr)
	}
	if err := ValidateAddress(addr); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
	if _, err := BuildAddress(pub[:10]); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}

func TestValidateAddressRejectsMalformed(t *testing.T) {
	cases := []string{"", "alice", "counter1", "counter10OIl", "cosmos1abc"}
	for _, c := range cases {
		if err := ValidateAddress(c); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("expected %q to be rejected, got %v", c, err)
		}
	}
}

func TestKeyringIsDeterministic(t *testing.T) {
	k1, err := NewKeyring(testMnemonic, 3)
	if err != nil {
		t.Fatalf("keyring 1 failed: %v", err)
	}
	k2, err := NewKeyring("  "+testMnemonic+"\n", 3)
	if err != nil {
		t.Fatalf("keyring 2 failed: %v", err)
	}
	a1, a2 := k1.Accounts(), k2.Accounts()
	if len(a1) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(a1))
	}
	seen := map[string]bool{}
	for i := range a1 {
		if a1[i].Address != a2[i].Address {
			t.Fatalf("account %d differs between derivations", i)
		}
		if a1[i].Name != "account"+string(rune('0'+i)) {
			t.Fatalf("unexpected account naming: %+v", a1[i])
		}
		if seen[a1[i].Address] {
			t.Fatalf("duplicate address %s", a1[i].Address)
		}
		seen[a1[i].Address] = true
	}
}

func TestKeyringRejectsBadInput(t *testing.T) {
	if _, err := NewKeyring("", 1); !errors.Is(err, ErrMnemonicRequired) {
		t.Fatalf("expected ErrMnemonicRequired, got %v", err)
	}
	if _, err := NewKeyring("not a real mnemonic phrase", 1); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
	if _, err := NewKeyring(testMnemonic, 0); err == nil {
		t.Fatal("expected zero accounts to be rejected")
	}
	if _, err := NewKeyring(testMnemonic, MaxAccounts+1); err == nil {
		t.Fatal("expected too many accounts to be rejected")
	}
}

func TestKeyringResolveAndSign(t *testing.T) {
	k, err := NewKeyring(testMnemonic, 2)
	if err != nil {
		t.Fatalf("keyring failed: %v", err)
	}
	byName, err := k.Resolve("account1")
	if err != nil {
		t.Fatalf("resolve by name failed: %v", err)
	}
	byAddr, err := k.Resolve(byName.Address)
	if err != nil || byAddr.Name != "account1" {
		t.Fatalf("resolve by address failed: %+v err=%v", byAddr, err)
	}
	if _, err := k.Resolve("account9"); !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}

	payload := []byte("increment")
	sig, err := k.Sign(byName.Address, payload)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	ok, err := Verify(byName.PublicKey, byName.Address, payload, sig)
	if err != nil || !ok {
		t.Fatalf("expected signature to verify, ok=%v err=%v", ok, err)
	}
	other, _ := k.Resolve("account0")
	if ok, _ := Verify(other.PublicKey, byName.Address, payload, sig); ok {
		t.Fatal("signature must not verify against another account")
	}
	if _, err := k.Sign("counter1nobody", payload); !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount for foreign address, got %v", err)
	}
}

func TestNewMnemonicIsValid(t *testing.T) {
	m, err := NewMnemonic()
	if err != nil {
		t.Fatalf("new mnemonic failed: %v", err)
	}
	if len(strings.Fields(m)) != 24 || !ValidateMnemonic(m) {
		t.Fatalf("unexpected mnemonic: %q", m)
	}
}
