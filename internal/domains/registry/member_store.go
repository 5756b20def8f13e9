package registry

import (
	"encoding/json"
	"fmt"

	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/domains/contracts/ports"
)

// MembersNamespace prefixes every member key in storage.
const MembersNamespace = "members"

type MemberStore struct {
	storage ports.Storage
}

func NewMemberStore(storage ports.Storage) *MemberStore {
	return &MemberStore{storage: storage}
}

func MemberStorageKey(key string) []byte {
	return contracts.NamespacedKey(MembersNamespace, []byte(key))
}

func (s *MemberStore) Load(key string) (Member, bool, error) {
	raw := s.storage.Get(MemberStorageKey(key))
	if raw == nil {
		return Member{}, false, nil
	}
	var member Member
	if err := json.Unmarshal(raw, &member); err != nil {
		return Member{}, false, fmt.Errorf("%w: %v", ErrCorruptMember, err)
	}
	return member, true, nil
}

func (s *MemberStore) Save(key string, member Member) error {
	raw, err := json.Marshal(member)
	if err != nil {
		return err
	}
	s.storage.Set(MemberStorageKey(key), raw)
	return nil
}

func (s *MemberStore) Remove(key string) error {
	s.storage.Delete(MemberStorageKey(key))
	return nil
}
