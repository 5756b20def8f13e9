package model

import (
	"errors"
	"strings"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
	ErrInvalidMemberKey    = errors.New("member key is required")
	ErrCorruptMember       = errors.New("member payload is invalid")
	ErrInvalidJoinPolicy   = errors.New("invalid join date policy")
)

// Member is a registry entry. Age is not range checked: every int8 is accepted.
type Member struct {
	Name       string          `json:"name"`
	Age        int8            `json:"age"`
	DateJoined ports.Timestamp `json:"date_joined"`
}

// JoinDatePolicy decides what an update does with the stored join date.
type JoinDatePolicy string

const (
	// JoinDateRestamp replaces the whole record, so an update stamps the
	// current block time as the join date.
	JoinDateRestamp JoinDatePolicy = "restamp"
	// JoinDatePreserve edits name and age and keeps the original join date.
	JoinDatePreserve JoinDatePolicy = "preserve"
)

func (p JoinDatePolicy) Valid() bool {
	switch p {
	case JoinDateRestamp, JoinDatePreserve:
		return true
	default:
		return false
	}
}

// ParseJoinDatePolicy maps a configured value to a policy; empty selects JoinDateRestamp.
func ParseJoinDatePolicy(raw string) (JoinDatePolicy, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return JoinDateRestamp, nil
	}
	policy := JoinDatePolicy(raw)
	if !policy.Valid() {
		return "", ErrInvalidJoinPolicy
	}
	return policy, nil
}

// NormalizeMemberKey rejects the empty key. Keys are otherwise stored verbatim,
// so "a" and " a" are distinct members.
func NormalizeMemberKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidMemberKey
	}
	return key, nil
}

func NewMember(name string, age int8, now ports.Timestamp) Member {
	return Member{Name: name, Age: age, DateJoined: now}
}
