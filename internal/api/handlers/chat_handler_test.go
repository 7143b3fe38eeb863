package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brandgate/internal/engine/chat"
	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/config"
)

func newUpstreamStub(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *chat.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := chat.NewClient(config.CompletionConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	return server, client
}

func TestChatHandler_Complete(t *testing.T) {
	upstreamCalls := 0
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"content": "Hello from stub"},
			"done":    true,
		})
	})

	handler := NewChatHandler(client, brand.Default(), true)

	t.Run("Missing Prompt", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}

		var body map[string]interface{}
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body["error"] != "Missing prompt" {
			t.Errorf("Expected error 'Missing prompt', got %v", body["error"])
		}
		if upstreamCalls != 0 {
			t.Errorf("Expected no upstream call for invalid request, got %d", upstreamCalls)
		}
	})

	t.Run("Valid Prompt", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"prompt":"Hi"}`))
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp ChatResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Output != "Hello from stub" {
			t.Errorf("Expected stub output, got %q", resp.Output)
		}
	})
}

func TestChatHandler_NotConfigured(t *testing.T) {
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Upstream should not be contacted when relay is unconfigured")
	})

	handler := NewChatHandler(client, brand.Default(), false)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"prompt":"Hi"}`))
	rr := httptest.NewRecorder()

	handler.Complete(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body["code"] != "CONFIG_ERROR" {
		t.Errorf("Expected CONFIG_ERROR code, got %v", body["code"])
	}
}

func TestChatHandler_UpstreamFailure(t *testing.T) {
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	handler := NewChatHandler(client, brand.Default(), true)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"prompt":"Hi"}`))
	rr := httptest.NewRecorder()

	handler.Complete(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	// The upstream detail stays server-side
	if strings.Contains(rr.Body.String(), "boom") {
		t.Errorf("Upstream detail leaked to client: %s", rr.Body.String())
	}
}

func TestChatHandler_Stream(t *testing.T) {
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, word := range []string{"one ", "two ", "three"} {
			fmt.Fprintf(w, `{"message":{"content":"%s"},"done":false}`+"\n", word)
			flusher.Flush()
		}
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	})

	handler := NewChatHandler(client, brand.Default(), true)

	req := httptest.NewRequest("POST", "/api/chat/stream", strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	rr := httptest.NewRecorder()

	handler.Stream(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "one two three" {
		t.Errorf("Expected streamed text, got %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain content type, got %s", ct)
	}
}

func TestChatHandler_Stream_BurstTail(t *testing.T) {
	// All chunks land in a single upstream write, so the decoder fills its
	// buffer and finishes before the handler reads anything. Every chunk
	// must still reach the client.
	var burst strings.Builder
	for _, word := range []string{"one ", "two ", "three ", "four"} {
		fmt.Fprintf(&burst, `{"message":{"content":"%s"},"done":false}`+"\n", word)
	}
	burst.WriteString(`{"message":{"content":""},"done":true}` + "\n")

	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, burst.String())
	})

	handler := NewChatHandler(client, brand.Default(), true)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("POST", "/api/chat/stream", strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
		rr := httptest.NewRecorder()

		handler.Stream(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Run %d: expected 200, got %d", i, rr.Code)
		}
		if got := rr.Body.String(); got != "one two three four" {
			t.Fatalf("Run %d: streamed tail dropped, got %q", i, got)
		}
	}
}

func TestChatHandler_Stream_MissingMessages(t *testing.T) {
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Upstream should not be contacted for invalid request")
	})

	handler := NewChatHandler(client, brand.Default(), true)

	req := httptest.NewRequest("POST", "/api/chat/stream", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.Stream(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestChatHandler_Stream_ClientAbort(t *testing.T) {
	upstreamCancelled := make(chan struct{})
	_, client := newUpstreamStub(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `{"message":{"content":"first"},"done":false}`)
		flusher.Flush()

		// Hold the stream open until the relay aborts the request
		<-r.Context().Done()
		close(upstreamCancelled)
	})

	handler := NewChatHandler(client, brand.Default(), true)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("POST", "/api/chat/stream", strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`)).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(rr, req)
		close(done)
	}()

	// Let the first chunk arrive, then drop the client
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler did not return after client abort")
	}

	select {
	case <-upstreamCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Upstream request was not cancelled after client abort")
	}
}
