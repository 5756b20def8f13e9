package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"counter-contract/go-backend/pkg/models"
)

var (
	errInvalidParams  = errors.New("invalid params")
	errInvalidMessage = errors.New("invalid contract message")
)

// senderMsgParams is a decoded mutating call. Signature is nil for unsigned
// calls.
type senderMsgParams struct {
	Sender    string
	Msg       json.RawMessage
	Signature *models.CallSignature
}

// decodeSenderMsgParams accepts [sender, msg], [sender, msg, signature] or
// {"sender": ..., "msg": ..., "signature": ...}.
func decodeSenderMsgParams(raw json.RawMessage) (senderMsgParams, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) != 2 && len(arr) != 3 {
			return senderMsgParams{}, errInvalidParams
		}
		var out senderMsgParams
		if err := json.Unmarshal(arr[0], &out.Sender); err != nil || strings.TrimSpace(out.Sender) == "" {
			return senderMsgParams{}, errInvalidParams
		}
		out.Msg = arr[1]
		if len(arr) == 3 {
			sig, err := decodeSignature(arr[2])
			if err != nil {
				return senderMsgParams{}, err
			}
			out.Signature = sig
		}
		return out, nil
	}

	var obj struct {
		Sender    string          `json:"sender"`
		Msg       json.RawMessage `json:"msg"`
		Signature json.RawMessage `json:"signature"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || strings.TrimSpace(obj.Sender) == "" || len(obj.Msg) == 0 {
		return senderMsgParams{}, errInvalidParams
	}
	out := senderMsgParams{Sender: obj.Sender, Msg: obj.Msg}
	if len(obj.Signature) > 0 {
		sig, err := decodeSignature(obj.Signature)
		if err != nil {
			return senderMsgParams{}, err
		}
		out.Signature = sig
	}
	return out, nil
}

// decodeSignature treats null as "unsigned" and rejects signatures with a
// missing key or signature.
func decodeSignature(raw json.RawMessage) (*models.CallSignature, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var sig models.CallSignature
	if err := json.Unmarshal(raw, &sig); err != nil || len(sig.PublicKey) == 0 || len(sig.Signature) == 0 {
		return nil, errInvalidParams
	}
	return &sig, nil
}

// decodeMsgParam accepts [msg] or {"msg": ...}.
func decodeMsgParam(raw json.RawMessage) (json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) != 1 {
			return nil, errInvalidParams
		}
		return arr[0], nil
	}
	var obj struct {
		Msg json.RawMessage `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj.Msg) == 0 {
		return nil, errInvalidParams
	}
	return obj.Msg, nil
}

// decodeContractMsg decodes a contract message strictly: unknown variants and
// fields are rejected instead of being silently dropped, and field names must
// match the snake_case wire names exactly.
func decodeContractMsg(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errInvalidMessage
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.Join(errInvalidMessage, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errInvalidMessage
	}
	return checkFieldNames(trimmed, out)
}

// checkFieldNames rejects keys that encoding/json only matched
// case-insensitively, e.g. {"INCREMENT":{}}.
func checkFieldNames(raw []byte, decoded any) error {
	canonical, err := json.Marshal(decoded)
	if err != nil {
		return errors.Join(errInvalidMessage, err)
	}
	var rawTree, canonicalTree any
	if err := json.Unmarshal(raw, &rawTree); err != nil {
		return errors.Join(errInvalidMessage, err)
	}
	if err := json.Unmarshal(canonical, &canonicalTree); err != nil {
		return errors.Join(errInvalidMessage, err)
	}
	if !sameFieldNames(rawTree, canonicalTree) {
		return errInvalidMessage
	}
	return nil
}

func sameFieldNames(raw, canonical any) bool {
	rawObj, ok := raw.(map[string]any)
	if !ok {
		return true
	}
	canonicalObj, ok := canonical.(map[string]any)
	if !ok {
		return false
	}
	for key, value := range rawObj {
		canonicalValue, ok := canonicalObj[key]
		if !ok || !sameFieldNames(value, canonicalValue) {
			return false
		}
	}
	return true
}
