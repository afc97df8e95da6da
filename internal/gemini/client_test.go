package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"draftcoach/internal/draft"
)

// newTestClient points a Client at a mock Gemini endpoint
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), Config{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

// TestGenerate_Success tests that the model text and detected patch are returned
func TestGenerate_Success(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Patch 26.5 build\nRUNES\nConqueror"}]}}]}`))
	})

	req := draft.Request{ChampionID: "Jinx", Role: draft.RoleADC, Enemies: []string{"Zed"}}
	gen, err := c.Generate(context.Background(), req, draft.PromptLong)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(gen.Text, "RUNES") {
		t.Errorf("Expected model text to be returned, got: %q", gen.Text)
	}
	if gen.PatchDetected != "26.5" {
		t.Errorf("Expected detected patch 26.5, got: %s", gen.PatchDetected)
	}

	if !strings.Contains(body, "googleSearch") {
		t.Error("Expected request to enable Google Search grounding")
	}
	if !strings.Contains(body, "7 item slots") {
		t.Error("Expected bottom lane request to ask for 7 item slots")
	}
}

// TestGenerate_ServerError tests that upstream failures surface their HTTP status
func TestGenerate_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	})

	_, err := c.Generate(context.Background(), draft.Request{ChampionID: "Ahri", Role: draft.RoleMid}, draft.PromptLong)
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got: %T (%v)", err, err)
	}
	if statusErr.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got: %d", statusErr.StatusCode())
	}
}

// TestNewClient_RequiresKey tests that a missing API key is rejected up front
func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}, nil); err == nil {
		t.Error("Expected error when API key is empty")
	}
}

// TestDetectPatch tests patch label extraction and fallback
func TestDetectPatch(t *testing.T) {
	tests := []struct {
		text     string
		fallback string
		want     string
	}{
		{"Build for Patch 26.4", "1.0", "26.4"},
		{"patch: 25.12 notes", "1.0", "25.12"},
		{"no version here", "26.4", "26.4"},
		{"Patchwork quilt 3.1", "26.4", "26.4"},
	}
	for _, tt := range tests {
		if got := DetectPatch(tt.text, tt.fallback); got != tt.want {
			t.Errorf("DetectPatch(%q) = %s, expected %s", tt.text, got, tt.want)
		}
	}
}

// TestPrompts tests prompt variants and the per-request message
func TestPrompts(t *testing.T) {
	long := SystemPrompt(draft.PromptLong, "26.4")
	if !strings.Contains(long, "Patch 26.4") || !strings.Contains(long, "NEED_RETRY") {
		t.Error("Expected long prompt to name the patch and the NEED_RETRY contract")
	}
	short := SystemPrompt(draft.PromptShort, "26.4")
	if len(short) >= len(long) {
		t.Error("Expected short prompt to be shorter than long prompt")
	}

	msg := UserMessage(draft.Request{ChampionID: "Ahri", Role: draft.RoleMid}, "26.4")
	if !strings.Contains(msg, "Allies: none") || !strings.Contains(msg, "6 item slots") {
		t.Errorf("Unexpected user message: %s", msg)
	}
}
