package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// newTestClient points a real messaging client at an httptest FCM endpoint
// answering every send with status and body.
func newTestClient(t *testing.T, code int, body string) (*Client, *[]map[string]interface{}) {
	t.Helper()

	var requests []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if !strings.HasSuffix(r.URL.Path, "/projects/test-project/messages:send") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: "test-project"},
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	mc, err := app.Messaging(ctx)
	if err != nil {
		t.Fatalf("failed to create messaging client: %v", err)
	}
	return NewClient(mc), &requests
}

func fcmError(code int, status, messagingCode string) string {
	details := ""
	if messagingCode != "" {
		details = `,"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"` + messagingCode + `"}]`
	}
	return `{"error":{"code":` + strconv.Itoa(code) + `,"message":"send failed","status":"` + status + `"` + details + `}}`
}

func TestSendToDevice(t *testing.T) {
	client, requests := newTestClient(t, http.StatusOK, `{"name":"projects/test-project/messages/0:42"}`)

	id, err := client.SendToDevice(context.Background(), "tok123", NotificationData{
		Title:       "Hi",
		Body:        "How are you?",
		ClickAction: "FLUTTER_NOTIFICATION_CLICK",
	})
	if err != nil {
		t.Fatalf("SendToDevice failed: %v", err)
	}
	if id != "projects/test-project/messages/0:42" {
		t.Errorf("unexpected message id %q", id)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected one request, got %d", len(*requests))
	}
	msg, _ := (*requests)[0]["message"].(map[string]interface{})
	if msg["token"] != "tok123" {
		t.Errorf("expected token tok123, got %v", msg["token"])
	}
	data, _ := msg["data"].(map[string]interface{})
	if data["click_action"] != "FLUTTER_NOTIFICATION_CLICK" {
		t.Errorf("expected click_action in data, got %v", data)
	}
}

func TestSendToDeviceTokenRejection(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		body         string
		wantRejected bool
	}{
		{"unregistered token", http.StatusNotFound, fcmError(http.StatusNotFound, "NOT_FOUND", "UNREGISTERED"), true},
		{"malformed token", http.StatusBadRequest, fcmError(http.StatusBadRequest, "INVALID_ARGUMENT", "INVALID_ARGUMENT"), true},
		{"internal error", http.StatusInternalServerError, fcmError(http.StatusInternalServerError, "INTERNAL", "INTERNAL"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.code, tt.body)

			_, err := client.SendToDevice(context.Background(), "tok123", NotificationData{Title: "Hi", Body: "Hello"})
			if err == nil {
				t.Fatal("expected send error")
			}
			if got := IsTokenRejected(err); got != tt.wantRejected {
				t.Errorf("IsTokenRejected(%v) = %v, want %v", err, got, tt.wantRejected)
			}
		})
	}
}
