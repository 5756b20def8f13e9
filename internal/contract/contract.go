// Package contract is the entry point the host calls: it decodes nothing and
// performs no I/O, it routes an already decoded message to the counter or
// registry use cases against the storage handle of the current call.
package contract

import (
	"errors"
	"strconv"

	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/domains/contracts/ports"
	"counter-contract/go-backend/internal/domains/counter"
	"counter-contract/go-backend/internal/domains/registry"
)

type Options struct {
	// JoinDate selects how UpdateMember treats the stored join date.
	JoinDate registry.JoinDatePolicy
}

// Contract holds configuration only. Every call builds its repositories from
// the storage handle it receives, so one Contract can serve many calls.
type Contract struct {
	opts Options
}

func New(opts Options) *Contract {
	if opts.JoinDate == "" {
		opts.JoinDate = registry.JoinDateRestamp
	}
	return &Contract{opts: opts}
}

func (c *Contract) Options() Options {
	return c.opts
}

func (c *Contract) Instantiate(storage ports.Storage, env ports.Env, info ports.MessageInfo, msg InstantiateMsg) (*Response, error) {
	state, err := counter.NewService(storage).Instantiate(msg.Count, info.Sender, env.Block.Time)
	if err != nil {
		return nil, classify(err)
	}
	if err := setContractVersion(storage, ContractName, ContractVersion); err != nil {
		return nil, classify(err)
	}
	return NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", state.Owner).
		AddAttribute("count", strconv.FormatInt(int64(state.Count), 10)), nil
}

func (c *Contract) Execute(storage ports.Storage, env ports.Env, info ports.MessageInfo, msg ExecuteMsg) (*Response, error) {
	if _, err := msg.Kind(); err != nil {
		return nil, classify(err)
	}
	switch {
	case msg.Increment != nil:
		return c.increment(storage, env)
	case msg.Reset != nil:
		return c.reset(storage, env, info, msg.Reset.Count)
	case msg.AddNewMember != nil:
		m := msg.AddNewMember
		return c.addMember(storage, env, m.Key, m.Name, m.Age)
	case msg.UpdateMember != nil:
		m := msg.UpdateMember
		return c.updateMember(storage, env, m.Key, m.Name, m.Age)
	default:
		return c.deleteMember(storage, msg.DeleteMember.Key)
	}
}

func (c *Contract) increment(storage ports.Storage, env ports.Env) (*Response, error) {
	if _, err := counter.NewService(storage).Increment(env.Block.Time); err != nil {
		return nil, classify(err)
	}
	return NewResponse().AddAttribute("method", "try_increment"), nil
}

func (c *Contract) reset(storage ports.Storage, env ports.Env, info ports.MessageInfo, count int32) (*Response, error) {
	if _, err := counter.NewService(storage).Reset(info.Sender, count, env.Block.Time); err != nil {
		return nil, classify(err)
	}
	return NewResponse().AddAttribute("method", "reset"), nil
}

func (c *Contract) addMember(storage ports.Storage, env ports.Env, key, name string, age int8) (*Response, error) {
	if _, err := registry.NewService(storage, c.opts.JoinDate).Add(key, name, age, env.Block.Time); err != nil {
		return nil, classify(err)
	}
	return NewResponse().AddAttribute("method", "add_member"), nil
}

func (c *Contract) updateMember(storage ports.Storage, env ports.Env, key, name string, age int8) (*Response, error) {
	if _, err := registry.NewService(storage, c.opts.JoinDate).Update(key, name, age, env.Block.Time); err != nil {
		return nil, classify(err)
	}
	return NewResponse().AddAttribute("method", "member updated!"), nil
}

func (c *Contract) deleteMember(storage ports.Storage, key string) (*Response, error) {
	if err := registry.NewService(storage, c.opts.JoinDate).Delete(key); err != nil {
		return nil, classify(err)
	}
	return NewResponse().AddAttribute("method", "member.deleted!"), nil
}

// Query answers a read-only message with one of CountResponse, MemberResponse
// or ContractVersionResponse. Storage is only read.
func (c *Contract) Query(storage ports.Storage, env ports.Env, msg QueryMsg) (any, error) {
	if _, err := msg.Kind(); err != nil {
		return nil, classify(err)
	}
	switch {
	case msg.GetCount != nil:
		return c.QueryCount(storage)
	case msg.GetMember != nil:
		return c.QueryMember(storage, msg.GetMember.Key)
	default:
		return c.QueryContractVersion(storage)
	}
}

func (c *Contract) QueryCount(storage ports.Storage) (CountResponse, error) {
	state, err := counter.NewService(storage).Get()
	if err != nil {
		return CountResponse{}, classify(err)
	}
	return CountResponse{
		Count:   state.Count,
		Message: state.Message,
		Owner:   state.Owner,
		Updated: state.Updated.Millis(),
	}, nil
}

func (c *Contract) QueryMember(storage ports.Storage, key string) (MemberResponse, error) {
	member, found, err := registry.NewService(storage, c.opts.JoinDate).Get(key)
	if err != nil {
		return MemberResponse{}, classify(err)
	}
	if !found {
		return MemberResponse{Found: false}, nil
	}
	return MemberResponse{
		Found: true,
		Member: &MemberView{
			Name:       member.Name,
			Age:        member.Age,
			DateJoined: member.DateJoined,
		},
	}, nil
}

func (c *Contract) QueryContractVersion(storage ports.Storage) (ContractVersionResponse, error) {
	info, err := getContractVersion(storage)
	if err != nil {
		if errors.Is(err, ErrContractVersionMissing) {
			return ContractVersionResponse{}, classify(counter.ErrStateNotInitialized)
		}
		return ContractVersionResponse{}, classify(err)
	}
	return ContractVersionResponse{Contract: info.Contract, Version: info.Version}, nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, counter.ErrUnauthorized):
		return contracts.WrapCategorizedError(contracts.ErrorCategoryAuth, err)
	case errors.Is(err, counter.ErrStateNotInitialized),
		errors.Is(err, counter.ErrCountOverflow),
		errors.Is(err, counter.ErrInvalidOwner),
		errors.Is(err, counter.ErrCorruptState):
		return contracts.WrapCategorizedError(contracts.ErrorCategoryState, err)
	case errors.Is(err, registry.ErrMemberNotFound),
		errors.Is(err, registry.ErrMemberAlreadyExists),
		errors.Is(err, registry.ErrInvalidMemberKey),
		errors.Is(err, registry.ErrInvalidJoinPolicy),
		errors.Is(err, registry.ErrCorruptMember):
		return contracts.WrapCategorizedError(contracts.ErrorCategoryRegistry, err)
	case errors.Is(err, ErrUnknownMessage):
		return contracts.WrapCategorizedError(contracts.ErrorCategoryAPI, err)
	default:
		return contracts.WrapCategorizedError(contracts.ErrorCategoryStorage, err)
	}
}
