package web

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sleepsweetly/aurafx-relay/notify"
	"github.com/sleepsweetly/aurafx-relay/stats"
)

// stubNotifier records sends and returns a scripted error.
type stubNotifier struct {
	sendErr error
	sent    []notify.Notification
	status  notify.Status
}

func (s *stubNotifier) Send(_ context.Context, n notify.Notification) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *stubNotifier) Status() notify.Status { return s.status }
func (s *stubNotifier) Close() error          { return nil }

func testServer(t *testing.T, opts ...Option) (*Server, *stats.Store, *stubNotifier) {
	t.Helper()
	store := stats.NewStore()
	stub := &stubNotifier{}
	return New(store, stub, opts...), store, stub
}

func doRequest(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestRootLiveness(t *testing.T) {
	srv, _, _ := testServer(t)
	rr := doRequest(t, srv.Handler(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "alive") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t, WithVersion("1.2.3"))
	rr := doRequest(t, srv.Handler(), http.MethodGet, "/health", nil)
	body := decodeBody(t, rr)
	if body["status"] != "healthy" || body["service"] != serviceName || body["version"] != "1.2.3" {
		t.Errorf("health = %v", body)
	}
}

func TestStatus(t *testing.T) {
	srv, _, stub := testServer(t)
	stub.status = notify.Status{Connected: true, Tag: "AuraFX#0001", Latency: 42 * time.Millisecond}

	body := decodeBody(t, doRequest(t, srv.Handler(), http.MethodGet, "/status", nil))
	if body["status"] != "online" {
		t.Errorf("status = %v", body["status"])
	}
	bot := body["bot"].(map[string]any)
	if bot["connected"] != true || bot["tag"] != "AuraFX#0001" || bot["ping"] != float64(42) {
		t.Errorf("bot = %v", bot)
	}
}

func TestStatusDisconnectedTag(t *testing.T) {
	srv, _, _ := testServer(t)
	body := decodeBody(t, doRequest(t, srv.Handler(), http.MethodGet, "/status", nil))
	bot := body["bot"].(map[string]any)
	if bot["tag"] != "Not connected" || bot["connected"] != false {
		t.Errorf("bot = %v", bot)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, store, _ := testServer(t)
	for i := 0; i < 7; i++ {
		store.RecordEvent(stats.Event{SkillName: "Fireball", Source: "2D Editor"})
	}
	store.SetMentionTarget("user42")

	body := decodeBody(t, doRequest(t, srv.Handler(), http.MethodGet, "/stats", nil))
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	data := body["data"].(map[string]any)
	if data["totalUses"] != float64(7) || data["mentionUserId"] != "user42" {
		t.Errorf("data = %v", data)
	}
	recent := data["recentNotifications"].([]any)
	if len(recent) != 5 {
		t.Errorf("recentNotifications length = %d, want 5", len(recent))
	}
}

func TestStatsEndpointEmptyHistory(t *testing.T) {
	srv, _, _ := testServer(t)

	body := decodeBody(t, doRequest(t, srv.Handler(), http.MethodGet, "/stats", nil))
	data := body["data"].(map[string]any)
	recent, ok := data["recentNotifications"].([]any)
	if !ok {
		t.Fatalf("recentNotifications = %v (%T), want empty array",
			data["recentNotifications"], data["recentNotifications"])
	}
	if len(recent) != 0 {
		t.Errorf("recentNotifications = %v, want empty", recent)
	}
}

func TestNotifyNestedShape(t *testing.T) {
	srv, store, stub := testServer(t)
	payload := []byte(`{
		"details": {
			"skillName": "Fireball",
			"source": "3D Editor",
			"layerCount": 2,
			"elementCount": 150,
			"activeModes": ["Mirror", "Rotate"]
		},
		"todayCount": 9,
		"totalUses": 100
	}`)

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["success"] != true || body["message"] != "Notification sent." {
		t.Errorf("body = %v", body)
	}

	rec := store.Snapshot()
	if rec.TotalUses != 100 || rec.TodayUses != 9 || rec.WeeklyUses != 1 {
		t.Errorf("counters = %d/%d/%d", rec.TotalUses, rec.TodayUses, rec.WeeklyUses)
	}

	if len(stub.sent) != 1 {
		t.Fatalf("sent %d notifications", len(stub.sent))
	}
	n := stub.sent[0]
	if n.Title != "✨ New Effect Code Generated! (3D Editor)" || n.Color != colorGold {
		t.Errorf("notification header = %q %#x", n.Title, n.Color)
	}
	if n.Fields[2].Value != "Mirror, Rotate" {
		t.Errorf("active modes = %q", n.Fields[2].Value)
	}
}

func TestNotifyFlatShapeWithImage(t *testing.T) {
	srv, store, stub := testServer(t)
	img := "data:image/png;base64,iVBORw0KGgo="
	payload := []byte(`{
		"skillName": "Nova",
		"elementCount": 10,
		"layerCount": 1,
		"activeModes": [],
		"source": "2D Editor",
		"canvasImage": "` + img + `"
	}`)

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if store.Snapshot().TotalUses != 1 {
		t.Error("flat shape did not increment counters")
	}

	n := stub.sent[0]
	if n.Color != colorBlue {
		t.Errorf("color = %#x, want blue", n.Color)
	}
	if n.Image == nil || !strings.HasPrefix(n.Image.Filename, "preview_") {
		t.Fatalf("image = %+v", n.Image)
	}
	if n.Fields[2].Value != "None" {
		t.Errorf("active modes = %q, want None", n.Fields[2].Value)
	}
}

func TestNotifyInvalidImageIsDropped(t *testing.T) {
	srv, _, stub := testServer(t)
	payload := []byte(`{"skillName": "Nova", "canvasImage": "data:image/jpeg;base64,xxx"}`)

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite bad image", rr.Code)
	}
	if stub.sent[0].Image != nil {
		t.Error("invalid image was attached")
	}
}

func TestNotifyMissingDetails(t *testing.T) {
	srv, store, stub := testServer(t)

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", []byte(`{}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := decodeBody(t, rr)["error"]; got != "Missing notification details." {
		t.Errorf("error = %v", got)
	}
	if store.Snapshot().TotalUses != 0 || len(stub.sent) != 0 {
		t.Error("rejected payload mutated state or sent a notification")
	}
}

func TestNotifyInvalidJSON(t *testing.T) {
	srv, _, _ := testServer(t)
	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", []byte(`{not json`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestNotifyChannelNotFound(t *testing.T) {
	srv, _, stub := testServer(t)
	stub.sendErr = &notify.ErrChannelNotFound{Channel: "chan1"}

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", []byte(`{"skillName":"X"}`))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := decodeBody(t, rr)["error"]; got != "Channel not found." {
		t.Errorf("error = %v", got)
	}
}

func TestNotifySendFailure(t *testing.T) {
	srv, _, stub := testServer(t)
	stub.sendErr = &notify.ErrSendFailed{Channel: "chan1", Cause: context.DeadlineExceeded}

	rr := doRequest(t, srv.Handler(), http.MethodPost, "/notify", []byte(`{"skillName":"X"}`))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := decodeBody(t, rr)["error"]; got != "Failed to send Discord message." {
		t.Errorf("error = %v", got)
	}
}

func TestNotifySignatureVerification(t *testing.T) {
	srv, _, _ := testServer(t, WithSecret("hmac_key"))
	h := srv.Handler()
	payload := []byte(`{"skillName":"X"}`)

	// Unsigned request is rejected.
	rr := doRequest(t, h, http.MethodPost, "/notify", payload)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unsigned: status = %d, want 403", rr.Code)
	}

	// Bad signature is rejected.
	req := httptest.NewRequest(http.MethodPost, "/notify", bytes.NewReader(payload))
	req.Header.Set("X-Signature-256", "sha256=deadbeef")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("bad signature: status = %d, want 403", rr.Code)
	}

	// GitHub-style signed request passes.
	mac := hmac.New(sha256.New, []byte("hmac_key"))
	mac.Write(payload)
	req = httptest.NewRequest(http.MethodPost, "/notify", bytes.NewReader(payload))
	req.Header.Set("X-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("signed: status = %d, body %s", rr.Code, rr.Body.String())
	}
}
