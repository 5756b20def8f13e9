package ports

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Storage is the key-value handle the host hands to the contract for one call.
// Get returns nil when the key is absent. Writes become durable only if the
// host commits the call.
type Storage interface {
	Get(key []byte) []byte
	Set(key, value []byte)
	Delete(key []byte)
}

// Timestamp is a point in block time expressed in nanoseconds since the Unix epoch.
// It is encoded on the wire as a decimal string so 64-bit values survive JSON.
type Timestamp uint64

func TimestampFromTime(t time.Time) Timestamp {
	if t.IsZero() || t.UnixNano() < 0 {
		return 0
	}
	return Timestamp(t.UnixNano())
}

func TimestampFromSeconds(seconds uint64) Timestamp {
	return Timestamp(seconds * uint64(time.Second))
}

func (t Timestamp) Nanos() uint64 {
	return uint64(t)
}

func (t Timestamp) Millis() uint64 {
	return uint64(t) / uint64(time.Millisecond)
}

func (t Timestamp) Seconds() uint64 {
	return uint64(t) / uint64(time.Second)
}

func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

func (t Timestamp) Plus(d time.Duration) Timestamp {
	if d <= 0 {
		return t
	}
	return t + Timestamp(d)
}

func (t Timestamp) String() string {
	return strconv.FormatUint(t.Seconds(), 10) + "." + leftPad9(uint64(t)%uint64(time.Second))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(t), 10))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return errors.New("timestamp must not be null")
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return errors.New("timestamp must be an unsigned nanosecond count")
	}
	*t = Timestamp(v)
	return nil
}

func leftPad9(v uint64) string {
	s := strconv.FormatUint(v, 10)
	if len(s) >= 9 {
		return s
	}
	return strings.Repeat("0", 9-len(s)) + s
}

// BlockInfo is the slice of chain state the host exposes to every call.
type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    Timestamp `json:"time"`
	ChainID string    `json:"chain_id"`
}

type ContractInfo struct {
	Address string `json:"address"`
}

// Env is the per-call environment supplied by the host.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// MessageInfo carries the identity of the account that signed the call.
type MessageInfo struct {
	Sender string `json:"sender"`
}

// Attribute is a key/value pair the host indexes for every successful mutation.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type CategorizedError struct {
	Category string
	Err      error
}

func (e *CategorizedError) Error() string {
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}
