package usecase

import (
	"counter-contract/go-backend/internal/domains/contracts/ports"
	"counter-contract/go-backend/internal/domains/counter/model"
	"counter-contract/go-backend/internal/domains/counter/policy"
)

type State = model.State
type Timestamp = ports.Timestamp

var (
	ErrStateNotInitialized = model.ErrStateNotInitialized
	ErrUnauthorized        = model.ErrUnauthorized
	ErrCountOverflow       = model.ErrCountOverflow
)

var (
	NewState           = model.NewState
	IncrementedMessage = model.IncrementedMessage
	ResetMessage       = model.ResetMessage
	RequireOwner       = policy.RequireOwner
)
