package registry

import registrymodel "counter-contract/go-backend/internal/domains/registry/model"

type Member = registrymodel.Member
type JoinDatePolicy = registrymodel.JoinDatePolicy

const (
	JoinDateRestamp  = registrymodel.JoinDateRestamp
	JoinDatePreserve = registrymodel.JoinDatePreserve
)

var (
	ErrMemberNotFound      = registrymodel.ErrMemberNotFound
	ErrMemberAlreadyExists = registrymodel.ErrMemberAlreadyExists
	ErrInvalidMemberKey    = registrymodel.ErrInvalidMemberKey
	ErrCorruptMember       = registrymodel.ErrCorruptMember
	ErrInvalidJoinPolicy   = registrymodel.ErrInvalidJoinPolicy
)

var ParseJoinDatePolicy = registrymodel.ParseJoinDatePolicy
