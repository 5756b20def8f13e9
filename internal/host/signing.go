package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/identity"
	"counter-contract/go-backend/pkg/models"
)

const signDomain = "counter-sign/v1"

var (
	ErrSignatureRequired = errors.New("call must be signed")
	ErrInvalidSignature  = errors.New("signature does not match sender")
)

type signatureKey struct{}

// WithSignature attaches the caller's signature to the next mutating call made
// with ctx.
func WithSignature(ctx context.Context, sig models.CallSignature) context.Context {
	return context.WithValue(ctx, signatureKey{}, sig)
}

func signatureFrom(ctx context.Context) (models.CallSignature, bool) {
	sig, ok := ctx.Value(signatureKey{}).(models.CallSignature)
	return sig, ok
}

// SignBytes is what a sender signs for one call: domain tag, chain id, entry
// point and sender address on their own lines, then the JSON message.
func SignBytes(chainID, entry, sender string, msg any) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, part := range []string{signDomain, chainID, entry, sender} {
		buf.WriteString(part)
		buf.WriteByte('\n')
	}
	buf.Write(raw)
	return buf.Bytes(), nil
}

// SignCall signs msg with the keyring account named by sender (name or
// address) and returns the address the call must be sent as.
func SignCall(keyring *identity.Keyring, chainID, entry, sender string, msg any) (string, models.CallSignature, error) {
	if keyring == nil {
		return "", models.CallSignature{}, identity.ErrUnknownAccount
	}
	account, err := keyring.Resolve(sender)
	if err != nil {
		return "", models.CallSignature{}, err
	}
	payload, err := SignBytes(chainID, entry, account.Address, msg)
	if err != nil {
		return "", models.CallSignature{}, err
	}
	sig, err := keyring.Sign(account.Address, payload)
	if err != nil {
		return "", models.CallSignature{}, err
	}
	return account.Address, models.CallSignature{PublicKey: account.PublicKey, Signature: sig}, nil
}

func (r *Runtime) authenticate(ctx context.Context, entry, sender string, msg any) error {
	sig, ok := signatureFrom(ctx)
	if !ok {
		if r.requireSignatures {
			return contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, ErrSignatureRequired)
		}
		return nil
	}
	if err := identity.ValidateAddress(sender); err != nil {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, fmt.Errorf("%w: %v", ErrInvalidSignature, err))
	}
	payload, err := SignBytes(r.clock.Current().ChainID, entry, sender, msg)
	if err != nil {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryAPI, err)
	}
	valid, err := identity.Verify(sig.PublicKey, sender, payload, sig.Signature)
	if err != nil || !valid {
		return contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, ErrInvalidSignature)
	}
	return nil
}
