package agent

import (
	"context"
	"net/http"
)

// ChatMessage is the wire shape shared by the agent and completion services.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// AgentEndpoint talks to a locally hosted agent that answers with a "text" field.
type AgentEndpoint struct {
	name       string
	url        string
	httpClient *http.Client
}

func NewAgentEndpoint(name, url string, httpClient *http.Client) *AgentEndpoint {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &AgentEndpoint{name: name, url: url, httpClient: httpClient}
}

func (e *AgentEndpoint) Name() string { return e.name }

func (e *AgentEndpoint) Generate(ctx context.Context, text string) (string, error) {
	req := ChatRequest{
		Messages: []ChatMessage{
			{Role: "user", Content: text},
		},
	}

	data, err := postJSON(ctx, e.httpClient, e.name, e.url, req)
	if err != nil {
		return "", err
	}

	return stringField(data, "text", ""), nil
}

// CompletionEndpoint talks to a generic completion service that answers with
// a "completion" field. The system prompt is sent ahead of the user message.
type CompletionEndpoint struct {
	name         string
	url          string
	systemPrompt string
	emptyReply   string
	httpClient   *http.Client
}

func NewCompletionEndpoint(name, url, systemPrompt, emptyReply string, httpClient *http.Client) *CompletionEndpoint {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &CompletionEndpoint{
		name:         name,
		url:          url,
		systemPrompt: systemPrompt,
		emptyReply:   emptyReply,
		httpClient:   httpClient,
	}
}

func (e *CompletionEndpoint) Name() string { return e.name }

func (e *CompletionEndpoint) Generate(ctx context.Context, text string) (string, error) {
	req := ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: e.systemPrompt},
			{Role: "user", Content: text},
		},
	}

	data, err := postJSON(ctx, e.httpClient, e.name, e.url, req)
	if err != nil {
		return "", err
	}

	completion := stringField(data, "completion", "")
	if completion == "" {
		return e.emptyReply, nil
	}
	return completion, nil
}
