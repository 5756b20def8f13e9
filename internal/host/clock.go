package host

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"counter-contract/go-backend/internal/domains/contracts/ports"
)

// blockKey holds the last committed block. It lives outside every key the
// contract writes and is committed in the same batch as the call.
var blockKey = []byte("__host/block")

var ErrInvalidBlock = errors.New("stored block header is invalid")

// BlockClock produces block headers. Height starts at 1 at genesis and every
// committed mutating call moves to the next block, step later.
type BlockClock struct {
	mu      sync.Mutex
	step    time.Duration
	current ports.BlockInfo
}

func NewBlockClock(chainID string, genesis time.Time, step time.Duration) *BlockClock {
	if step < 0 {
		step = 0
	}
	return &BlockClock{
		step: step,
		current: ports.BlockInfo{
			Height:  1,
			Time:    ports.TimestampFromTime(genesis),
			ChainID: strings.TrimSpace(chainID),
		},
	}
}

func (c *BlockClock) Current() ports.BlockInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Next returns the header the next mutating call runs in without moving the
// clock; Commit moves it.
func (c *BlockClock) Next() ports.BlockInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.BlockInfo{
		Height:  c.current.Height + 1,
		Time:    c.current.Time.Plus(c.step),
		ChainID: c.current.ChainID,
	}
}

// Commit advances to b. Headers that would move height or time backwards are
// ignored.
func (c *BlockClock) Commit(b ports.BlockInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.Height <= c.current.Height || b.Time < c.current.Time {
		return
	}
	c.current = b
}

// Restore resumes from a header persisted by an earlier run on the same chain.
func (c *BlockClock) Restore(b ports.BlockInfo) error {
	if b.Height == 0 || b.ChainID != c.Current().ChainID {
		return ErrInvalidBlock
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.Height >= c.current.Height {
		c.current = b
	}
	return nil
}

func encodeBlock(b ports.BlockInfo) ([]byte, error) {
	return json.Marshal(b)
}

func decodeBlock(raw []byte) (ports.BlockInfo, error) {
	var b ports.BlockInfo
	if err := json.Unmarshal(raw, &b); err != nil {
		return ports.BlockInfo{}, ErrInvalidBlock
	}
	return b, nil
}
