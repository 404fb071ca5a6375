package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	"dashboard/config"
	"dashboard/logger"
	"dashboard/utils"
)

// Client is the gateway to a Solana JSON-RPC endpoint. It issues one request
// per call with no retry: rate limits are expected on public endpoints and
// the caller decides what a failed cycle means.
type Client struct {
	endpoint string
	log      *slog.Logger
}

// NewClient builds a client for the given endpoint, falling back to the
// configured sol.rpc and then the public mainnet endpoint.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = viper.GetString("sol.rpc")
	}
	if endpoint == "" {
		endpoint = config.DefaultRPCEndpoint
	}
	return &Client{endpoint: endpoint, log: logger.RpcLogger}
}

func (c *Client) Endpoint() string { return c.endpoint }

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Call posts a single JSON-RPC request and returns the raw result field.
// A failure to reach the endpoint is a *TransportError; a structured error
// from the node is a *RpcError with the remote message verbatim.
func (c *Client) Call(method string, params []any) (json.RawMessage, error) {
	req := rpcRequest{
		Jsonrpc: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	}

	var resp rpcResponse
	if err := utils.PostJSON(c.endpoint, req, &resp); err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	if resp.Error != nil {
		return nil, &RpcError{Method: method, Code: resp.Error.Code, Message: resp.Error.Message}
	}

	return resp.Result, nil
}

func (c *Client) call(method string, params []any, out any) error {
	result, err := c.Call(method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("RPC %s: undecodable result: %w", method, err)
	}
	return nil
}

// GetVoteAccounts lists all voting validators, split into current and
// delinquent sets.
func (c *Client) GetVoteAccounts() (*VoteAccounts, error) {
	var va VoteAccounts
	if err := c.call("getVoteAccounts", []any{}, &va); err != nil {
		return nil, err
	}
	return &va, nil
}

func (c *Client) GetEpochInfo() (*EpochInfo, error) {
	var info EpochInfo
	if err := c.call("getEpochInfo", []any{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetInflationRate() (*InflationRate, error) {
	var rate InflationRate
	if err := c.call("getInflationRate", []any{}, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

func (c *Client) GetSupply() (*Supply, error) {
	var supply Supply
	if err := c.call("getSupply", []any{}, &supply); err != nil {
		return nil, err
	}
	return &supply, nil
}

func (c *Client) GetSlot() (uint64, error) {
	var slot uint64
	if err := c.call("getSlot", []any{map[string]string{"commitment": "finalized"}}, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

func (c *Client) GetClusterNodes() ([]ClusterNode, error) {
	var nodes []ClusterNode
	if err := c.call("getClusterNodes", []any{}, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetStakeAccounts scans delegated stake accounts, bounded by limit. Public
// nodes reject unbounded scans with a resource-limit error; that error (and
// any other structured remote error) degrades to an empty result because
// stake data is best-effort for the dashboard. Transport failures propagate.
func (c *Client) GetStakeAccounts(limit int) ([]StakeAccount, error) {
	if limit <= 0 {
		limit = config.STAKE_FETCH_DEFAULT_LIMIT
	}
	if limit > config.STAKE_FETCH_MAX_LIMIT {
		limit = config.STAKE_FETCH_MAX_LIMIT
	}

	params := []any{
		solana.StakeProgramID.String(),
		map[string]any{
			"encoding": "jsonParsed",
			"limit":    limit,
			// Offset 4 is the StakeState enum; "2" keeps delegated accounts only
			"filters": []any{
				map[string]any{
					"memcmp": map[string]any{
						"offset": 4,
						"bytes":  "2",
					},
				},
			},
		},
	}

	var accounts []StakeAccount
	if err := c.call("getProgramAccounts", params, &accounts); err != nil {
		var rpcErr *RpcError
		if errors.As(err, &rpcErr) {
			c.log.Warn("Stake account scan rejected by node, continuing without stake data",
				"code", rpcErr.Code, "message", rpcErr.Message)
			return []StakeAccount{}, nil
		}
		return nil, err
	}
	return accounts, nil
}
