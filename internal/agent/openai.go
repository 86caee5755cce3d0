package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEndpoint uses any OpenAI-compatible chat completion API.
type OpenAIEndpoint struct {
	name         string
	model        string
	systemPrompt string
	client       openai.Client
}

// NewOpenAIEndpoint builds the endpoint. An empty baseURL uses OpenAI's own API.
func NewOpenAIEndpoint(name, baseURL, apiKey, model, systemPrompt string, httpClient *http.Client) *OpenAIEndpoint {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIEndpoint{
		name:         name,
		model:        model,
		systemPrompt: systemPrompt,
		client:       openai.NewClient(opts...),
	}
}

func (e *OpenAIEndpoint) Name() string { return e.name }

func (e *OpenAIEndpoint) Generate(ctx context.Context, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(e.systemPrompt),
			openai.UserMessage(text),
		},
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &EndpointError{
				Endpoint:   e.name,
				StatusCode: apiErr.StatusCode,
				Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, apiErr.Message),
			}
		}
		return "", &EndpointError{Endpoint: e.name, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &EndpointError{Endpoint: e.name, Err: errors.New("no choices returned in chat completion response")}
	}

	return resp.Choices[0].Message.Content, nil
}
