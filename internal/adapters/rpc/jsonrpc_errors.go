package rpc

import (
	"context"
	"errors"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/domains/counter"
	"counter-contract/go-backend/internal/domains/registry"
	"counter-contract/go-backend/internal/domains/rpckit"
	"counter-contract/go-backend/internal/host"
)

func rpcInvalidParams() *rpcError {
	return rpckit.InvalidParams()
}

func rpcInvalidMessage(err error) *rpcError {
	return rpckit.ServiceError(rpckit.CodeInvalidMessage, err)
}

// mapContractError turns a host or contract failure into a JSON-RPC error.
// Storage failures and corrupt stored records are reported without detail.
func mapContractError(err error) *rpcError {
	switch {
	case errors.Is(err, counter.ErrUnauthorized),
		errors.Is(err, host.ErrSenderRequired),
		errors.Is(err, host.ErrUnknownSender),
		errors.Is(err, host.ErrSignatureRequired),
		errors.Is(err, host.ErrInvalidSignature):
		return rpckit.ServiceError(rpckit.CodeUnauthorized, err)
	case errors.Is(err, registry.ErrMemberNotFound):
		return rpckit.ServiceError(rpckit.CodeMemberNotFound, err)
	case errors.Is(err, registry.ErrMemberAlreadyExists):
		return rpckit.ServiceError(rpckit.CodeMemberExists, err)
	case errors.Is(err, counter.ErrStateNotInitialized):
		return rpckit.ServiceError(rpckit.CodeNotInitialized, err)
	case errors.Is(err, counter.ErrCountOverflow):
		return rpckit.ServiceError(rpckit.CodeCountOverflow, err)
	case errors.Is(err, contract.ErrUnknownMessage),
		errors.Is(err, registry.ErrInvalidMemberKey),
		errors.Is(err, counter.ErrInvalidOwner):
		return rpcInvalidMessage(err)
	case errors.Is(err, counter.ErrCorruptState), errors.Is(err, registry.ErrCorruptMember):
		return &rpcError{Code: rpckit.CodeInternal, Message: "internal error"}
	case errors.Is(err, host.ErrSenderRateLimited):
		return rpckit.ServiceError(rpckit.CodeRateLimited, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return rpckit.ServiceError(rpckit.CodeInternal, err)
	}
	if contracts.ErrorCategory(err) == contracts.ErrorCategoryAuth {
		return rpckit.ServiceError(rpckit.CodeUnauthorized, err)
	}
	return &rpcError{Code: rpckit.CodeInternal, Message: "internal error"}
}
