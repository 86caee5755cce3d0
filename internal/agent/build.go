package agent

import (
	"fmt"
	"net/http"

	"movie-chat/internal/config"
)

// BuildEndpoints creates the endpoint strategies in configured order.
func BuildEndpoints(cfg *config.Config, httpClient *http.Client) ([]Endpoint, error) {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	endpoints := make([]Endpoint, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		switch ep.Kind {
		case config.KindAgent:
			endpoints = append(endpoints, NewAgentEndpoint(ep.Name, ep.URL, httpClient))
		case config.KindCompletion:
			endpoints = append(endpoints, NewCompletionEndpoint(ep.Name, ep.URL, cfg.Content.SystemPrompt, cfg.Content.EmptyCompletion, httpClient))
		case config.KindOpenAI:
			endpoints = append(endpoints, NewOpenAIEndpoint(ep.Name, ep.URL, ep.APIKey, ep.Model, cfg.Content.SystemPrompt, httpClient))
		default:
			return nil, fmt.Errorf("endpoint %s: unknown kind %q", ep.Name, ep.Kind)
		}
	}

	return endpoints, nil
}
