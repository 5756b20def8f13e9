package counter

import countermodel "counter-contract/go-backend/internal/domains/counter/model"

type State = countermodel.State

const InitialMessage = countermodel.InitialMessage

var (
	ErrStateNotInitialized = countermodel.ErrStateNotInitialized
	ErrUnauthorized        = countermodel.ErrUnauthorized
	ErrCountOverflow       = countermodel.ErrCountOverflow
	ErrInvalidOwner        = countermodel.ErrInvalidOwner
	ErrCorruptState        = countermodel.ErrCorruptState
)

var ValidateState = countermodel.ValidateState
