package contract

import (
	"errors"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

var ErrUnknownMessage = errors.New("message must set exactly one variant")

type InstantiateMsg struct {
	Count int32 `json:"count"`
}

// ExecuteMsg is a tagged union: exactly one field is set.
type ExecuteMsg struct {
	Increment    *IncrementMsg    `json:"increment,omitempty"`
	Reset        *ResetMsg        `json:"reset,omitempty"`
	AddNewMember *AddNewMemberMsg `json:"add_new_member,omitempty"`
	UpdateMember *UpdateMemberMsg `json:"update_member,omitempty"`
	DeleteMember *DeleteMemberMsg `json:"delete_member,omitempty"`
}

type IncrementMsg struct{}

type ResetMsg struct {
	Count int32 `json:"count"`
}

type AddNewMemberMsg struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Age  int8   `json:"age"`
}

type UpdateMemberMsg struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Age  int8   `json:"age"`
}

type DeleteMemberMsg struct {
	Key string `json:"key"`
}

// Kind names the variant that is set.
func (m ExecuteMsg) Kind() (string, error) {
	kinds := make([]string, 0, 1)
	if m.Increment != nil {
		kinds = append(kinds, "increment")
	}
	if m.Reset != nil {
		kinds = append(kinds, "reset")
	}
	if m.AddNewMember != nil {
		kinds = append(kinds, "add_new_member")
	}
	if m.UpdateMember != nil {
		kinds = append(kinds, "update_member")
	}
	if m.DeleteMember != nil {
		kinds = append(kinds, "delete_member")
	}
	if len(kinds) != 1 {
		return "", ErrUnknownMessage
	}
	return kinds[0], nil
}

type QueryMsg struct {
	GetCount        *GetCountQuery        `json:"get_count,omitempty"`
	GetMember       *GetMemberQuery       `json:"get_member,omitempty"`
	ContractVersion *ContractVersionQuery `json:"contract_version,omitempty"`
}

type GetCountQuery struct{}

type GetMemberQuery struct {
	Key string `json:"key"`
}

type ContractVersionQuery struct{}

func (m QueryMsg) Kind() (string, error) {
	kinds := make([]string, 0, 1)
	if m.GetCount != nil {
		kinds = append(kinds, "get_count")
	}
	if m.GetMember != nil {
		kinds = append(kinds, "get_member")
	}
	if m.ContractVersion != nil {
		kinds = append(kinds, "contract_version")
	}
	if len(kinds) != 1 {
		return "", ErrUnknownMessage
	}
	return kinds[0], nil
}

// CountResponse reports the counter; Updated is in milliseconds.
type CountResponse struct {
	Count   int32  `json:"count"`
	Message string `json:"message"`
	Owner   string `json:"owner"`
	Updated uint64 `json:"updated"`
}

type MemberView struct {
	Name       string          `json:"name"`
	Age        int8            `json:"age"`
	DateJoined ports.Timestamp `json:"date_joined"`
}

// MemberResponse carries Member only when Found is true.
type MemberResponse struct {
	Found  bool        `json:"found"`
	Member *MemberView `json:"member"`
}

type ContractVersionResponse struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}
