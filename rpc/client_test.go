package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// rpcFixture serves canned JSON-RPC responses keyed by method name.
func rpcFixture(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("undecodable request body: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		body, ok := results[req.Method]
		if !ok {
			t.Errorf("unexpected method %q", req.Method)
			http.Error(w, "unknown method", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestCallTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetEpochInfo()
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transportErr.Method != "getEpochInfo" {
		t.Errorf("method = %q, want getEpochInfo", transportErr.Method)
	}
}

func TestCallUnreachableEndpoint(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").GetSlot()
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestCallRpcError(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getVoteAccounts": `{"jsonrpc":"2.0","id":"1","error":{"code":-32602,"message":"Invalid param: wrong size"}}`,
	})
	defer srv.Close()

	_, err := NewClient(srv.URL).GetVoteAccounts()
	var rpcErr *RpcError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RpcError, got %T: %v", err, err)
	}
	if rpcErr.Code != -32602 || rpcErr.Message != "Invalid param: wrong size" {
		t.Errorf("unexpected error contents: %+v", rpcErr)
	}
}

func TestGetVoteAccounts(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getVoteAccounts": `{"jsonrpc":"2.0","id":"1","result":{
			"current":[{
				"votePubkey":"vote1","nodePubkey":"node1",
				"activatedStake":123456789000,"commission":5,
				"lastVote":366000010,"rootSlot":366000000,
				"epochCredits":[[699,1000,900],[700,1500,1000]]
			}],
			"delinquent":[{
				"votePubkey":"vote2","nodePubkey":"node2",
				"activatedStake":1000000000,"commission":100,
				"lastVote":365000000,"rootSlot":364999999,
				"epochCredits":[]
			}]
		}}`,
	})
	defer srv.Close()

	va, err := NewClient(srv.URL).GetVoteAccounts()
	if err != nil {
		t.Fatalf("GetVoteAccounts failed: %v", err)
	}
	if len(va.Current) != 1 || len(va.Delinquent) != 1 {
		t.Fatalf("expected 1 current and 1 delinquent, got %d/%d", len(va.Current), len(va.Delinquent))
	}
	v := va.Current[0]
	if v.ActivatedStake != 123456789000 || v.Commission != 5 {
		t.Errorf("unexpected vote account: %+v", v)
	}
	if len(v.EpochCredits) != 2 || v.EpochCredits[1] != [3]int64{700, 1500, 1000} {
		t.Errorf("unexpected epochCredits: %v", v.EpochCredits)
	}
}

func TestGetEpochInfoAndSlot(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getEpochInfo": `{"jsonrpc":"2.0","id":"1","result":{
			"epoch":700,"slotIndex":216000,"slotsInEpoch":432000,
			"absoluteSlot":366216000,"blockHeight":340000000}}`,
		"getSlot": `{"jsonrpc":"2.0","id":"1","result":366216001}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	info, err := c.GetEpochInfo()
	if err != nil {
		t.Fatalf("GetEpochInfo failed: %v", err)
	}
	if info.Epoch != 700 || info.SlotsInEpoch != 432000 {
		t.Errorf("unexpected epoch info: %+v", info)
	}

	slot, err := c.GetSlot()
	if err != nil {
		t.Fatalf("GetSlot failed: %v", err)
	}
	if slot != 366216001 {
		t.Errorf("slot = %d, want 366216001", slot)
	}
}

func TestGetInflationAndSupply(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getInflationRate": `{"jsonrpc":"2.0","id":"1","result":{
			"total":0.08,"validator":0.075,"foundation":0.005,"epoch":700}}`,
		"getSupply": `{"jsonrpc":"2.0","id":"1","result":{
			"context":{"slot":366216001},
			"value":{"total":580000000000000000,"circulating":460000000000000000,"nonCirculating":120000000000000000}}}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	rate, err := c.GetInflationRate()
	if err != nil {
		t.Fatalf("GetInflationRate failed: %v", err)
	}
	if rate.Total != 0.08 || rate.Foundation != 0.005 {
		t.Errorf("unexpected inflation rate: %+v", rate)
	}

	supply, err := c.GetSupply()
	if err != nil {
		t.Fatalf("GetSupply failed: %v", err)
	}
	if supply.Value.Total != 580000000000000000 || supply.Value.Circulating != 460000000000000000 {
		t.Errorf("unexpected supply: %+v", supply.Value)
	}
}

func TestGetStakeAccounts(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getProgramAccounts": `{"jsonrpc":"2.0","id":"1","result":[{
			"pubkey":"stake1",
			"account":{
				"lamports":5000000000,
				"owner":"Stake11111111111111111111111111111111111111",
				"data":{"program":"stake","parsed":{"info":{"meta":{},"stake":{}},"type":"delegated"},"space":200}
			}
		}]}`,
	})
	defer srv.Close()

	accounts, err := NewClient(srv.URL).GetStakeAccounts(50)
	if err != nil {
		t.Fatalf("GetStakeAccounts failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Account.Lamports != 5000000000 {
		t.Errorf("unexpected lamports: %d", accounts[0].Account.Lamports)
	}
	if accounts[0].Account.ParsedInfo() == nil {
		t.Errorf("expected parsed info blob")
	}
}

// A scan-limit rejection from the node must degrade to an empty result, not
// an error: stake data is best-effort and the rest of the refresh continues.
func TestGetStakeAccountsScanLimitDegrades(t *testing.T) {
	srv := rpcFixture(t, map[string]string{
		"getProgramAccounts": `{"jsonrpc":"2.0","id":"1","error":{
			"code":-32010,"message":"Failed to query: accumulated scan results exceeded the limit"}}`,
	})
	defer srv.Close()

	accounts, err := NewClient(srv.URL).GetStakeAccounts(50)
	if err != nil {
		t.Fatalf("expected scan-limit error to be swallowed, got %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected empty account list, got %d", len(accounts))
	}
}
