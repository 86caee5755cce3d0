package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIEndpoint_Generate(t *testing.T) {
	var gotMessages []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected Authorization header %q", auth)
		}

		var body struct {
			Model    string           `json:"model"`
			Messages []map[string]any `json:"messages"`
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		if body.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", body.Model)
		}
		gotMessages = body.Messages

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Watch Heat (1995)"}
			}]
		}`)
	}))
	defer srv.Close()

	ep := NewOpenAIEndpoint("openai", srv.URL+"/v1/", "sk-test", "gpt-4o-mini", testSystemPrompt, srv.Client())
	reply, err := ep.Generate(context.Background(), "A great heist film?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if reply != "Watch Heat (1995)" {
		t.Errorf("reply = %q", reply)
	}
	if len(gotMessages) != 2 {
		t.Fatalf("got %d messages, want 2", len(gotMessages))
	}
	if gotMessages[0]["role"] != "system" || gotMessages[1]["role"] != "user" {
		t.Errorf("unexpected roles: %v", gotMessages)
	}
}

func TestOpenAIEndpoint_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	ep := NewOpenAIEndpoint("openai", srv.URL+"/v1/", "sk-bad", "gpt-4o-mini", testSystemPrompt, srv.Client())
	_, err := ep.Generate(context.Background(), "hello")

	var epErr *EndpointError
	if !errors.As(err, &epErr) {
		t.Fatalf("expected EndpointError, got %v", err)
	}
	if epErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", epErr.StatusCode, http.StatusUnauthorized)
	}
}
