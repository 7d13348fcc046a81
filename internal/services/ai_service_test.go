package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSummarizeNotConfigured(t *testing.T) {
	svc := NewAIService()

	cases := []struct{ baseURL, token, model string }{
		{"", "tok", "gpt-4o-mini"},
		{"https://api.example/v1/chat/completions", "", "gpt-4o-mini"},
		{"https://api.example/v1/chat/completions", "tok", ""},
	}
	for _, c := range cases {
		if _, err := svc.Summarize("content", c.baseURL, c.token, c.model); !errors.Is(err, ErrAINotConfigured) {
			t.Errorf("Summarize(%q, %q, %q) = %v, want ErrAINotConfigured", c.baseURL, c.token, c.model, err)
		}
	}
}

func TestSummarizeSuccess(t *testing.T) {
	var gotAuth, gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}
		json.NewEncoder(w).Encode(openAIResponse{
			Choices: []choice{{Message: message{Role: "assistant", Content: "A tidy summary."}}},
		})
	}))
	defer server.Close()

	svc := NewAIService()
	summary, err := svc.Summarize("post body here", server.URL, "secret-token", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "A tidy summary." {
		t.Errorf("summary = %q", summary)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("model = %q", gotModel)
	}
	if !strings.Contains(gotPrompt, "post body here") {
		t.Errorf("prompt did not include the content: %q", gotPrompt)
	}
}

func TestSummarizeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewAIService()
	_, err := svc.Summarize("content", server.URL, "tok", "gpt-4o-mini")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry the upstream body: %v", err)
	}
}

func TestSummarizeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openAIResponse{})
	}))
	defer server.Close()

	svc := NewAIService()
	if _, err := svc.Summarize("content", server.URL, "tok", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
