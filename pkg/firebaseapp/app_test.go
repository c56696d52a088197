package firebaseapp

import "testing"

func TestClientOptions(t *testing.T) {
	if opts := ClientOptions(""); len(opts) != 0 {
		t.Fatalf("expected no options without credentials, got %d", len(opts))
	}
	if opts := ClientOptions("/secrets/firebase.json"); len(opts) != 1 {
		t.Fatalf("expected one option with credentials, got %d", len(opts))
	}
}

func TestCloseNil(t *testing.T) {
	var h *Handles
	if err := h.Close(); err != nil {
		t.Fatalf("Close on nil handles: %v", err)
	}
}
