package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"counter-contract/go-backend/internal/domains/rpckit"
	"counter-contract/go-backend/pkg/models"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

var ErrRPCStatus = errors.New("unexpected rpc http status")

// Client calls a counter host over JSON-RPC. A returned *rpckit.Error means
// the host answered with an error object.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	nextID   atomic.Int64
}

// New targets addr, given as host:port or a full URL.
func New(addr, token string) *Client {
	endpoint := strings.TrimSpace(addr)
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasSuffix(endpoint, "/rpc") {
		endpoint += "/rpc"
	}
	return &Client{
		endpoint: endpoint,
		token:    strings.TrimSpace(token),
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) Call(ctx context.Context, method string, params any, out any) (retErr error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID.Add(1),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Counter-Request-ID", "cli."+uuid.NewString())
	if c.token != "" {
		req.Header.Set("X-Counter-RPC-Token", c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && retErr == nil {
			retErr = closeErr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrRPCStatus, resp.StatusCode)
	}
	var decoded struct {
		Result json.RawMessage `json:"result"`
		Error  *rpckit.Error   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if out == nil || len(decoded.Result) == 0 {
		return nil
	}
	return json.Unmarshal(decoded.Result, out)
}

// Instantiate sends msg as sender. sig may be nil for unsigned calls.
func (c *Client) Instantiate(ctx context.Context, sender string, msg any, sig *models.CallSignature) (models.TxResult, error) {
	var res models.TxResult
	err := c.Call(ctx, "contract.instantiate", mutateParams(sender, msg, sig), &res)
	return res, err
}

func (c *Client) Execute(ctx context.Context, sender string, msg any, sig *models.CallSignature) (models.TxResult, error) {
	var res models.TxResult
	err := c.Call(ctx, "contract.execute", mutateParams(sender, msg, sig), &res)
	return res, err
}

func mutateParams(sender string, msg any, sig *models.CallSignature) []any {
	if sig == nil {
		return []any{sender, msg}
	}
	return []any{sender, msg, sig}
}

// Query returns the raw result so callers can decode whichever response type
// the query produces.
func (c *Client) Query(ctx context.Context, msg any) (json.RawMessage, error) {
	var res json.RawMessage
	err := c.Call(ctx, "contract.query", []any{msg}, &res)
	return res, err
}

func (c *Client) Block(ctx context.Context) (models.BlockStatus, error) {
	var res models.BlockStatus
	err := c.Call(ctx, "block.info", nil, &res)
	return res, err
}

func (c *Client) Accounts(ctx context.Context) ([]models.Account, error) {
	var res []models.Account
	err := c.Call(ctx, "accounts.list", nil, &res)
	return res, err
}
