package rpckit

// Error is a transport-level RPC error that can be mapped by the caller
// to a concrete wire format (e.g. JSON-RPC error object).
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602

	CodeUnauthorized    = -32001
	CodeMemberNotFound  = -32002
	CodeMemberExists    = -32003
	CodeNotInitialized  = -32004
	CodeInvalidMessage  = -32005
	CodeCountOverflow   = -32006
	CodeInternal        = -32010
	CodeRateLimited     = -32029
	CodeServiceDisabled = -32099
)

func InvalidParams() *Error {
	return &Error{Code: CodeInvalidParams, Message: "invalid params"}
}

func InvalidRequest() *Error {
	return &Error{Code: CodeInvalidRequest, Message: "invalid request"}
}

func MethodNotFound() *Error {
	return &Error{Code: CodeMethodNotFound, Message: "method not found"}
}

func ServiceError(code int, err error) *Error {
	return &Error{Code: code, Message: err.Error()}
}
