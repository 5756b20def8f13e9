package model

import (
	"errors"
	"fmt"
	"strings"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

// InitialMessage is the status text written by instantiation.
const InitialMessage = "This is a state 1"

var (
	ErrStateNotInitialized = errors.New("counter state not found: contract is not instantiated")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCountOverflow       = errors.New("counter overflow")
	ErrInvalidOwner        = errors.New("owner address is required")
	ErrCorruptState        = errors.New("counter state payload is invalid")
)

// State is the singleton counter record.
type State struct {
	Count   int32           `json:"count"`
	Owner   string          `json:"owner"`
	Message string          `json:"message"`
	Updated ports.Timestamp `json:"updated"`
}

func NewState(count int32, owner string, now ports.Timestamp) (State, error) {
	owner, err := NormalizeOwner(owner)
	if err != nil {
		return State{}, err
	}
	return State{
		Count:   count,
		Owner:   owner,
		Message: InitialMessage,
		Updated: now,
	}, nil
}

// NormalizeOwner rejects a blank owner. The identity is stored byte for byte,
// as RequireOwner compares it.
func NormalizeOwner(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", ErrInvalidOwner
	}
	return owner, nil
}

// ValidateState checks a record loaded from storage.
func ValidateState(state State) error {
	if strings.TrimSpace(state.Owner) == "" {
		return ErrCorruptState
	}
	return nil
}

func IncrementedMessage(count int32) string {
	return fmt.Sprintf("Counter incremented %d", count)
}

func ResetMessage(count int32) string {
	return fmt.Sprintf("Counter reset :%d", count)
}
