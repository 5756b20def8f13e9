package registry

import (
	"counter-contract/go-backend/internal/domains/contracts/ports"
	registryusecase "counter-contract/go-backend/internal/domains/registry/usecase"
)

type Service = registryusecase.Service

func NewService(storage ports.Storage, joinDate JoinDatePolicy) *Service {
	return registryusecase.NewService(NewMemberStore(storage), joinDate)
}
