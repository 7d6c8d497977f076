package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "llama3" || req.Stream || req.Prompt != "hello" {
			t.Errorf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  eat more protein \n"})
	}))
	defer srv.Close()

	p := New(srv.URL, "llama3", 5*time.Second)
	out, err := p.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if out != "eat more protein" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestProviderCompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "llama3", time.Second).Complete(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestProviderHealthPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
	}))
	defer srv.Close()

	if err := New(srv.URL, "llama3", time.Second).HealthPing(context.Background()); err != nil {
		t.Fatalf("expected model to be found: %v", err)
	}
	if err := New(srv.URL, "mistral", time.Second).HealthPing(context.Background()); err == nil {
		t.Fatalf("expected missing model error")
	}
}
