package usecase

import (
	"errors"
	"math"
)

// StateRepository loads and stores the singleton record. Load returns
// ErrStateNotInitialized when nothing has been stored yet.
type StateRepository interface {
	Load() (State, error)
	Save(state State) error
}

type Service struct {
	State StateRepository
}

func NewService(state StateRepository) *Service {
	return &Service{State: state}
}

// Instantiate writes a fresh record owned by owner. An existing record is
// overwritten, owner included.
func (s *Service) Instantiate(count int32, owner string, now Timestamp) (State, error) {
	if s.State == nil {
		return State{}, errors.New("state repository is required")
	}
	state, err := NewState(count, owner, now)
	if err != nil {
		return State{}, err
	}
	if err := s.State.Save(state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Increment is open to every caller.
func (s *Service) Increment(now Timestamp) (State, error) {
	return s.update(func(state *State) error {
		if state.Count == math.MaxInt32 {
			return ErrCountOverflow
		}
		state.Count++
		state.Message = IncrementedMessage(state.Count)
		state.Updated = now
		return nil
	})
}

// Reset sets the counter to count. Only the owner may reset; anyone else gets
// ErrUnauthorized and the record is left untouched.
func (s *Service) Reset(sender string, count int32, now Timestamp) (State, error) {
	return s.update(func(state *State) error {
		if err := RequireOwner(*state, sender); err != nil {
			return err
		}
		state.Count = count
		state.Message = ResetMessage(count)
		state.Updated = now
		return nil
	})
}

func (s *Service) Get() (State, error) {
	if s.State == nil {
		return State{}, errors.New("state repository is required")
	}
	return s.State.Load()
}

// update runs one load-mutate-store cycle. Nothing is written when mutate fails.
func (s *Service) update(mutate func(state *State) error) (State, error) {
	if s.State == nil {
		return State{}, errors.New("state repository is required")
	}
	state, err := s.State.Load()
	if err != nil {
		return State{}, err
	}
	if err := mutate(&state); err != nil {
		return State{}, err
	}
	if err := s.State.Save(state); err != nil {
		return State{}, err
	}
	return state, nil
}
