package poller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashboard/db"
	"dashboard/types"
)

func TestHandlerBeforeFirstRefresh(t *testing.T) {
	p := New(healthyGateway(), db.NewNoop(), testConfig())
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	for _, route := range []string{"/api/validators", "/api/network", "/api/stake"} {
		resp, err := http.Get(srv.URL + route)
		if err != nil {
			t.Fatalf("GET %s failed: %v", route, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503 before first refresh", route, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", resp.StatusCode)
	}
}

func TestHandlerServesRefreshedData(t *testing.T) {
	p := New(healthyGateway(), db.NewNoop(), testConfig())
	if _, err := p.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/validators")
	if err != nil {
		t.Fatalf("GET /api/validators failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/validators = %d, want 200", resp.StatusCode)
	}

	var records types.ValidatorRecords
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("undecodable validator payload: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 validator records, got %d", len(records))
	}

	netResp, err := http.Get(srv.URL + "/api/network")
	if err != nil {
		t.Fatalf("GET /api/network failed: %v", err)
	}
	defer netResp.Body.Close()

	var snap types.NetworkSnapshot
	if err := json.NewDecoder(netResp.Body).Decode(&snap); err != nil {
		t.Fatalf("undecodable network payload: %v", err)
	}
	if snap.Epoch.Current != 700 {
		t.Errorf("epoch = %d, want 700", snap.Epoch.Current)
	}
}
