package usecase

import "errors"

// MemberRepository is keyed access to stored members. Load reports absence
// with found=false rather than an error.
type MemberRepository interface {
	Load(key string) (member Member, found bool, err error)
	Save(key string, member Member) error
	Remove(key string) error
}

type Service struct {
	Members  MemberRepository
	JoinDate JoinDatePolicy
}

func NewService(members MemberRepository, joinDate JoinDatePolicy) *Service {
	return &Service{Members: members, JoinDate: joinDate}
}

// Add stores a new member joined at now. A taken key fails with
// ErrMemberAlreadyExists and the stored member is left as it was.
func (s *Service) Add(key, name string, age int8, now Timestamp) (Member, error) {
	key, err := s.prepare(key)
	if err != nil {
		return Member{}, err
	}
	if _, found, err := s.Members.Load(key); err != nil {
		return Member{}, err
	} else if found {
		return Member{}, ErrMemberAlreadyExists
	}
	member := NewMember(name, age, now)
	if err := s.Members.Save(key, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

// Update replaces name and age of an existing member. The join date follows
// the service JoinDate policy.
func (s *Service) Update(key, name string, age int8, now Timestamp) (Member, error) {
	key, err := s.prepare(key)
	if err != nil {
		return Member{}, err
	}
	stored, found, err := s.Members.Load(key)
	if err != nil {
		return Member{}, err
	}
	if !found {
		return Member{}, ErrMemberNotFound
	}
	updated := NewMember(name, age, now)
	switch s.joinDatePolicy() {
	case JoinDatePreserve:
		updated.DateJoined = stored.DateJoined
	case JoinDateRestamp:
	default:
		return Member{}, ErrInvalidJoinPolicy
	}
	if err := s.Members.Save(key, updated); err != nil {
		return Member{}, err
	}
	return updated, nil
}

func (s *Service) Delete(key string) error {
	key, err := s.prepare(key)
	if err != nil {
		return err
	}
	if _, found, err := s.Members.Load(key); err != nil {
		return err
	} else if !found {
		return ErrMemberNotFound
	}
	return s.Members.Remove(key)
}

// Get never fails on absence: a missing member is found=false.
func (s *Service) Get(key string) (Member, bool, error) {
	key, err := s.prepare(key)
	if err != nil {
		return Member{}, false, err
	}
	return s.Members.Load(key)
}

func (s *Service) prepare(key string) (string, error) {
	if s.Members == nil {
		return "", errors.New("member repository is required")
	}
	return NormalizeMemberKey(key)
}

func (s *Service) joinDatePolicy() JoinDatePolicy {
	if s.JoinDate == "" {
		return JoinDateRestamp
	}
	return s.JoinDate
}
