package counter

import (
	"encoding/json"
	"fmt"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

// StateKey is the fixed storage key of the singleton record.
const StateKey = "state"

// StateStore reads and writes the singleton record through the host storage
// handle of the current call.
type StateStore struct {
	storage ports.Storage
}

func NewStateStore(storage ports.Storage) *StateStore {
	return &StateStore{storage: storage}
}

func (s *StateStore) Load() (State, error) {
	raw := s.storage.Get([]byte(StateKey))
	if raw == nil {
		return State{}, ErrStateNotInitialized
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := ValidateState(state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *StateStore) Save(state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.storage.Set([]byte(StateKey), raw)
	return nil
}
