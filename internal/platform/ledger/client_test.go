package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestRecordVerificationMockMode(t *testing.T) {
	c := New(nil, Config{Mock: true})
	txID, err := c.RecordVerification(context.Background(), "v1", "t1", "ps1", time.Now())
	if err != nil {
		t.Fatalf("RecordVerification: %v", err)
	}
	if !strings.HasPrefix(txID, "mock-tx-") {
		t.Errorf("txID = %q, want mock-tx- prefix", txID)
	}
}

func TestRecordVerification(t *testing.T) {
	at := time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var decoded struct {
			Method string `json:"method"`
			Params []struct {
				VoterID   string `json:"voterId"`
				Timestamp int64  `json:"timestamp"`
			} `json:"params"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if decoded.Method != "ledger_recordVerification" {
			t.Errorf("method = %q", decoded.Method)
		}
		if len(decoded.Params) != 1 || decoded.Params[0].VoterID != "v1" {
			t.Errorf("params = %+v", decoded.Params)
		}
		if decoded.Params[0].Timestamp != at.Unix() {
			t.Errorf("timestamp = %d, want %d", decoded.Params[0].Timestamp, at.Unix())
		}
		return jsonResponse(http.StatusOK, `{"result":{"txId":"0xabc123"}}`), nil
	})

	c := New(client, Config{RPCURL: "http://ledger.local/rpc"})
	txID, err := c.RecordVerification(context.Background(), "v1", "t1", "ps1", at)
	if err != nil {
		t.Fatalf("RecordVerification: %v", err)
	}
	if txID != "0xabc123" {
		t.Errorf("txID = %q, want 0xabc123", txID)
	}
}

func TestRecordVerificationRPCError(t *testing.T) {
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"error":{"code":-32000,"message":"node syncing"}}`), nil
	})

	c := New(client, Config{RPCURL: "http://ledger.local/rpc"})
	if _, err := c.RecordVerification(context.Background(), "v1", "t1", "ps1", time.Now()); err == nil {
		t.Fatal("expected error for RPC error response")
	}
}

func TestRecordVerificationHTTPError(t *testing.T) {
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})

	c := New(client, Config{RPCURL: "http://ledger.local/rpc"})
	if _, err := c.RecordVerification(context.Background(), "v1", "t1", "ps1", time.Now()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
