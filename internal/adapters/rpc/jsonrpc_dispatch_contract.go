package rpc

import (
	"context"
	"encoding/json"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/host"
)

func (s *Server) dispatchContractRPC(ctx context.Context, method string, rawParams json.RawMessage) (any, *rpcError, bool) {
	switch method {
	case "contract.instantiate":
		params, err := decodeSenderMsgParams(rawParams)
		if err != nil {
			return nil, rpcInvalidParams(), true
		}
		var msg contract.InstantiateMsg
		if err := decodeContractMsg(params.Msg, &msg); err != nil {
			return nil, rpcInvalidMessage(err), true
		}
		result, err := s.service.Instantiate(withSignature(ctx, params), params.Sender, msg)
		if err != nil {
			return nil, mapContractError(err), true
		}
		return result, nil, true
	case "contract.execute":
		params, err := decodeSenderMsgParams(rawParams)
		if err != nil {
			return nil, rpcInvalidParams(), true
		}
		var msg contract.ExecuteMsg
		if err := decodeContractMsg(params.Msg, &msg); err != nil {
			return nil, rpcInvalidMessage(err), true
		}
		if _, err := msg.Kind(); err != nil {
			return nil, rpcInvalidMessage(err), true
		}
		result, err := s.service.Execute(withSignature(ctx, params), params.Sender, msg)
		if err != nil {
			return nil, mapContractError(err), true
		}
		return result, nil, true
	case "contract.query":
		rawMsg, err := decodeMsgParam(rawParams)
		if err != nil {
			return nil, rpcInvalidParams(), true
		}
		var msg contract.QueryMsg
		if err := decodeContractMsg(rawMsg, &msg); err != nil {
			return nil, rpcInvalidMessage(err), true
		}
		if _, err := msg.Kind(); err != nil {
			return nil, rpcInvalidMessage(err), true
		}
		result, err := s.service.Query(ctx, msg)
		if err != nil {
			return nil, mapContractError(err), true
		}
		return result, nil, true
	default:
		return nil, nil, false
	}
}

func withSignature(ctx context.Context, params senderMsgParams) context.Context {
	if params.Signature == nil {
		return ctx
	}
	return host.WithSignature(ctx, *params.Signature)
}

func (s *Server) dispatchChainRPC(method string) (any, *rpcError, bool) {
	switch method {
	case "block.info":
		return s.service.Block(), nil, true
	case "accounts.list":
		return s.service.Accounts(), nil, true
	default:
		return nil, nil, false
	}
}
