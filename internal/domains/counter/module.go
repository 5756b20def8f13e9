package counter

import (
	"counter-contract/go-backend/internal/domains/contracts/ports"
	counterusecase "counter-contract/go-backend/internal/domains/counter/usecase"
)

type Service = counterusecase.Service

// NewService binds the counter use cases to the storage of one call.
func NewService(storage ports.Storage) *Service {
	return counterusecase.NewService(NewStateStore(storage))
}
