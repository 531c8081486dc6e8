package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hnsummary/internal/config"
)

func backendTestConfig() config.Config {
	return config.Config{
		OllamaModel:       "mistral:7b",
		OpenAIModel:       "gpt-3.5-turbo",
		Timeout:           5 * time.Second,
		MaxTokens:         200,
		EnhancedMaxTokens: 1000,
		Temperature:       0.7,
		AllowFallback:     true,
	}
}

func TestOllamaSummarizeAgainstStubServer(t *testing.T) {
	var gotRequest ollamaRequest

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/generate" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(ollamaResponse{
				Response: "First line.\nSecond line.\nThird line.",
			})
		}))
	defer server.Close()

	cfg := backendTestConfig()
	cfg.OllamaURL = server.URL

	s := NewOllama(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	lines, err := s.Summarize(context.Background(), testContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lines[0] != "First line." || lines[2] != "Third line." {
		t.Fatalf("unexpected lines: %v", lines)
	}

	if gotRequest.Model != "mistral:7b" {
		t.Fatalf("unexpected model in request: %q", gotRequest.Model)
	}
	if gotRequest.Stream {
		t.Fatal("expected stream to be disabled")
	}
	if !strings.Contains(gotRequest.Prompt, "Title: Test Article") {
		t.Fatalf("expected title in prompt: %q", gotRequest.Prompt)
	}
}

func TestOllamaServerErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
	defer server.Close()

	cfg := backendTestConfig()
	cfg.OllamaURL = server.URL

	s := NewOllama(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	lines, err := s.Summarize(context.Background(), testContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := NewBasic().Summarize(context.Background(), testContent())
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected basic fallback output, got %v", lines)
	}
}

func TestOllamaConnectionErrorForbiddenFallback(t *testing.T) {
	cfg := backendTestConfig()
	cfg.OllamaURL = "http://127.0.0.1:1" // nothing listens here
	cfg.AllowFallback = false

	s := NewOllama(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := s.Summarize(context.Background(), testContent())
	if err == nil {
		t.Fatal("expected error when fallback is forbidden")
	}
	if !strings.Contains(err.Error(), "ollama") {
		t.Fatalf("expected error to name backend: %q", err.Error())
	}
}

func TestOpenAISummarizeAgainstStubServer(t *testing.T) {
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"First line.\nSecond line.\nThird line."},"finish_reason":"stop"}]}`)
		}))
	defer server.Close()

	cfg := backendTestConfig()
	cfg.OpenAIAPIKey = "test-key"
	cfg.OpenAIBaseURL = server.URL

	s := NewOpenAI(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	lines, err := s.Summarize(context.Background(), testContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lines[0] != "First line." || lines[2] != "Third line." {
		t.Fatalf("unexpected lines: %v", lines)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if !strings.HasSuffix(gotPath, "/chat/completions") {
		t.Fatalf("unexpected request path: %q", gotPath)
	}
}

func TestOpenAIMissingCredentialFallsBack(t *testing.T) {
	cfg := backendTestConfig()

	s := NewOpenAI(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	lines, err := s.Summarize(context.Background(), testContent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := NewBasic().Summarize(context.Background(), testContent())
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected basic fallback output, got %v", lines)
	}
}

func TestOpenAIMissingCredentialForbiddenFallback(t *testing.T) {
	cfg := backendTestConfig()
	cfg.AllowFallback = false

	s := NewOpenAI(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := s.Summarize(context.Background(), testContent())
	if err == nil {
		t.Fatal("expected error when fallback is forbidden")
	}

	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T", err)
	}
	if backendErr.Backend != "llmapi" {
		t.Fatalf("expected llmapi backend name, got %q", backendErr.Backend)
	}
}
