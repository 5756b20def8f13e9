package rpc

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/domains/rpckit"
	"counter-contract/go-backend/internal/host"
	"counter-contract/go-backend/internal/identity"
	"counter-contract/go-backend/internal/storage"
	"counter-contract/go-backend/pkg/models"
)

func newSigningServer(t *testing.T) (*Server, *identity.Keyring) {
	t.Helper()
	keyring, err := identity.NewKeyring(testMnemonic, 2)
	if err != nil {
		t.Fatalf("keyring failed: %v", err)
	}
	r, err := host.NewRuntime(storage.NewMemoryStore(), host.Config{
		ChainID:           "counter-test",
		Genesis:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BlockStep:         time.Second,
		Keyring:           keyring,
		RequireSignatures: true,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("runtime failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return NewServer(DefaultRPCAddr, r, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}), keyring
}

func signedBody(t *testing.T, method, sender string, msg any, sig models.CallSignature) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  map[string]any{"sender": sender, "msg": msg, "signature": sig},
	})
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	return string(raw)
}

func TestRPCSignedCalls(t *testing.T) {
	s, keyring := newSigningServer(t)

	mustErrorCode(t, s, `{"jsonrpc":"2.0","id":1,"method":"contract.instantiate","params":["account0",{"count":1}]}`, rpckit.CodeUnauthorized)

	instantiateMsg := contract.InstantiateMsg{Count: 1}
	owner, sig, err := host.SignCall(keyring, "counter-test", host.EntryInstantiate, "account0", instantiateMsg)
	if err != nil {
		t.Fatalf("sign instantiate: %v", err)
	}
	var tx models.TxResult
	mustResult(t, s, signedBody(t, "contract.instantiate", owner, instantiateMsg, sig), &tx)
	if tx.Sender != owner {
		t.Fatalf("expected sender %s, got %s", owner, tx.Sender)
	}

	reset := contract.ExecuteMsg{Reset: &contract.ResetMsg{Count: 7}}
	_, resetSig, err := host.SignCall(keyring, "counter-test", host.EntryExecute, owner, reset)
	if err != nil {
		t.Fatalf("sign reset: %v", err)
	}
	tampered := contract.ExecuteMsg{Reset: &contract.ResetMsg{Count: 8}}
	mustErrorCode(t, s, signedBody(t, "contract.execute", owner, tampered, resetSig), rpckit.CodeUnauthorized)

	other, otherSig, err := host.SignCall(keyring, "counter-test", host.EntryExecute, "account1", reset)
	if err != nil {
		t.Fatalf("sign as account1: %v", err)
	}
	mustErrorCode(t, s, signedBody(t, "contract.execute", owner, reset, otherSig), rpckit.CodeUnauthorized)
	mustErrorCode(t, s, signedBody(t, "contract.execute", other, reset, otherSig), rpckit.CodeUnauthorized)

	mustResult(t, s, signedBody(t, "contract.execute", owner, reset, resetSig), nil)
	var count contract.CountResponse
	mustResult(t, s, `{"jsonrpc":"2.0","id":9,"method":"contract.query","params":[{"get_count":{}}]}`, &count)
	if count.Count != 7 || count.Owner != owner {
		t.Fatalf("unexpected count after signed reset: %+v", count)
	}
}
