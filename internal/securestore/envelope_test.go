package securestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"counter-contract/go-backend/internal/testutil/fsperm"
)

func TestSealOpenRoundtrip(t *testing.T) {
	data, err := Seal("pass", "chain-a", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	plain, err := Open("pass", "chain-a", data)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plain) != "secret" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
}

func TestOpenTamperedFailsDeterministically(t *testing.T) {
	data, err := Seal("pass", "chain-a", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if len(data) < 10 {
		t.Fatalf("unexpected sealed payload size: %d", len(data))
	}
	data[len(data)-2] ^= 0xFF
	_, err = Open("pass", "chain-a", data)
	if !errors.Is(err, ErrAuthFailed) && !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestOpenRejectsWrongPassphraseAndLabel(t *testing.T) {
	data, err := Seal("pass", "chain-a", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := Open("other", "chain-a", data); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for wrong passphrase, got %v", err)
	}
	if _, err := Open("pass", "chain-b", data); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for wrong label, got %v", err)
	}
	if _, err := Open("pass", "chain-a", []byte(`{"plain":true}`)); !errors.Is(err, ErrNotSealed) {
		t.Fatalf("expected ErrNotSealed, got %v", err)
	}
}

func TestWriteSealedJSONCreatesPrivateFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	path := filepath.Join(dir, "kv.enc")
	if err := WriteSealedJSON(path, "pass", "chain-a", map[string]int{"count": 17}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	fsperm.AssertPrivateDirPerm(t, dir)
	fsperm.AssertPrivateFilePerm(t, path)
	plain, err := ReadSealedFile(path, "pass", "chain-a")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(plain) != `{"count":17}` {
		t.Fatalf("unexpected payload: %s", plain)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snapshot file, found %d entries", len(entries))
	}
}
