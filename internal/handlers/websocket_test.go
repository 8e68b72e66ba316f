package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"ordertrack/internal/models"
	"ordertrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, false)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func wsURL(t *testing.T, base, rawQuery string) string {
	t.Helper()
	u, err := url.Parse(base)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery
	return u.String()
}

func TestWebSocket_StatsStream_InitialAndPeriodic(t *testing.T) {
	orders := &mockOrders{statsResp: models.OrderStats{
		Total: 3, Pending: 2, Completed: 1,
		PendingAmount: 20, CompletedAmount: 5,
	}}
	auth := &mockAuth{parseClaims: &service.TokenClaims{UserID: "u-1", Username: "alice"}}
	r := newTestRouter(&service.Service{Authorization: auth, Orders: orders})

	srv := httptest.NewServer(r)
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(t, srv.URL, "interval_ms=20"), authHeader("tok"))
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Read initial snapshot
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "stats" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var got models.OrderStats
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if got != orders.statsResp {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if orders.lastUserID != "u-1" {
		t.Fatalf("stats must be scoped to the session user, got %q", orders.lastUserID)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "stats" {
		t.Fatalf("expected type=stats, got %+v", env)
	}
}

func TestWebSocket_Unauthenticated_Rejected(t *testing.T) {
	auth := &mockAuth{parseErr: errors.New("bad token")}
	r := newTestRouter(&service.Service{Authorization: auth})

	srv := httptest.NewServer(r)
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(wsURL(t, srv.URL, ""), nil)
	if err == nil {
		t.Fatalf("expected handshake to fail without a session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWebSocket_InitialStatsError_Closes(t *testing.T) {
	orders := &mockOrders{statsErr: errors.New("boom")}
	auth := &mockAuth{parseClaims: &service.TokenClaims{UserID: "u-1"}}
	r := newTestRouter(&service.Service{Authorization: auth, Orders: orders})

	srv := httptest.NewServer(r)
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(t, srv.URL, ""), authHeader("tok"))
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// The server should close immediately after the failed initial send.
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
