package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client writes verification audit records to the blockchain ledger node over
// JSON-RPC. Ledger writes are best-effort: callers log failures and move on.
type Client struct {
	rpcURL     string
	httpClient HTTPClient
	mock       bool
}

// Config defines settings for the ledger client.
type Config struct {
	RPCURL string
	Mock   bool
}

// New creates a ledger client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		rpcURL:     cfg.RPCURL,
		httpClient: httpClient,
		mock:       cfg.Mock,
	}
}

// RecordVerification appends an audit entry for one verification attempt and
// returns the ledger transaction ID.
func (c *Client) RecordVerification(ctx context.Context, voterID, terminalID, stationID string, at time.Time) (string, error) {
	if c.mock {
		return "mock-tx-" + uuid.NewString(), nil
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "ledger_recordVerification",
		Params: []any{recordParams{
			VoterID:    voterID,
			TerminalID: terminalID,
			StationID:  stationID,
			Timestamp:  at.UTC().Unix(),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode ledger request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ledger request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ledger response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ledger status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode ledger response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("ledger error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	return decoded.Result.TxID, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type recordParams struct {
	VoterID    string `json:"voterId"`
	TerminalID string `json:"terminalId"`
	StationID  string `json:"stationId"`
	Timestamp  int64  `json:"timestamp"`
}

type rpcResponse struct {
	Result struct {
		TxID string `json:"txId"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
