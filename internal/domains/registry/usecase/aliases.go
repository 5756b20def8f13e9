package usecase

import (
	"counter-contract/go-backend/internal/domains/contracts/ports"
	"counter-contract/go-backend/internal/domains/registry/model"
)

type Member = model.Member
type JoinDatePolicy = model.JoinDatePolicy
type Timestamp = ports.Timestamp

const (
	JoinDateRestamp  = model.JoinDateRestamp
	JoinDatePreserve = model.JoinDatePreserve
)

var (
	ErrMemberNotFound      = model.ErrMemberNotFound
	ErrMemberAlreadyExists = model.ErrMemberAlreadyExists
	ErrInvalidJoinPolicy   = model.ErrInvalidJoinPolicy
)

var (
	NewMember          = model.NewMember
	NormalizeMemberKey = model.NormalizeMemberKey
)
