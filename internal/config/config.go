package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".movie-chat"
	DefaultConfigFile = "config.yaml"
)

// Endpoint kinds understood by the agent package.
const (
	KindAgent      = "agent"
	KindCompletion = "completion"
	KindOpenAI     = "openai"
)

// Config represents the application configuration
type Config struct {
	// Endpoints are consulted in order during an exchange; the first success wins.
	Endpoints []EndpointConfig `yaml:"endpoints"`
	Content   ContentConfig    `yaml:"content"`
	Debug     bool             `yaml:"debug"`
}

// EndpointConfig describes one assistant backend
type EndpointConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// ContentConfig holds the user-facing copy of the assistant
type ContentConfig struct {
	SystemPrompt    string   `yaml:"system_prompt"`
	WelcomeGreeting string   `yaml:"welcome_greeting"`
	ClearedGreeting string   `yaml:"cleared_greeting"`
	EmptyCompletion string   `yaml:"empty_completion"`
	ErrorReply      string   `yaml:"error_reply"`
	ErrorNotice     string   `yaml:"error_notice"`
	ClearedNotice   string   `yaml:"cleared_notice"`
	Suggestions     []string `yaml:"suggestions"`
}

// envOverrides are read from the process environment after the config file.
type envOverrides struct {
	PrimaryURL    string `env:"MOVIECHAT_PRIMARY_URL"`
	FallbackURL   string `env:"MOVIECHAT_FALLBACK_URL"`
	OpenAIAPIKey  string `env:"MOVIECHAT_OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"MOVIECHAT_OPENAI_BASE_URL"`
	OpenAIModel   string `env:"MOVIECHAT_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Debug         bool   `env:"MOVIECHAT_DEBUG"`
}

func DefaultConfig() *Config {
	return &Config{
		Endpoints: []EndpointConfig{
			{
				Name: "movie-agent",
				Kind: KindAgent,
				URL:  "http://localhost:4111/api/agents/movieAgent/generate",
			},
			{
				Name: "a0-llm",
				Kind: KindCompletion,
				URL:  "https://api.a0.dev/ai/llm",
			},
		},
		Content: ContentConfig{
			SystemPrompt: "You are a helpful movie expert assistant. You know about movies, actors, directors, " +
				"genres, recommendations, and film history. Always provide engaging and informative responses " +
				"about movies. Your responses should be enthusiastic and friendly with a conversational tone.",
			WelcomeGreeting: "Hello! I'm your movie assistant. Ask me anything about movies, actors, or recommendations!",
			ClearedGreeting: "Chat cleared! How can I help you with movies today?",
			EmptyCompletion: "Sorry, I couldn't generate a response.",
			ErrorReply:      "I'm having trouble connecting right now. Please try again in a moment!",
			ErrorNotice:     "Unable to connect to movie agent. Please check your connection.",
			ClearedNotice:   "Chat cleared!",
			Suggestions: []string{
				"What movies would you recommend for date night?",
				"Who's your favorite director?",
				"What are the best sci-fi movies of the last decade?",
				"Tell me about the latest Marvel movie",
				"What's your favorite movie soundtrack?",
				"Recommend me a comedy from the 90s",
			},
		},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile), nil
}

// GetLogDir returns the directory the log files are written to
func GetLogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir, "logs"), nil
}

// Load loads the configuration from path, creating a default file if none
// exists, then applies environment overrides. An empty path means the
// default location in the user's home directory.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		// The app works without a writable config dir, so a failed save is ignored.
		_ = Save(path, cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decode over the defaults so a partial file keeps the remaining values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from a .env file into the process
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves the configuration to path
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if ov.PrimaryURL != "" {
		if ep := c.firstOfKind(KindAgent); ep != nil {
			ep.URL = ov.PrimaryURL
		}
	}
	if ov.FallbackURL != "" {
		if ep := c.firstOfKind(KindCompletion); ep != nil {
			ep.URL = ov.FallbackURL
		}
	}

	if ov.OpenAIAPIKey != "" {
		ep := c.firstOfKind(KindOpenAI)
		if ep == nil {
			c.Endpoints = append(c.Endpoints, EndpointConfig{Name: "openai", Kind: KindOpenAI})
			ep = &c.Endpoints[len(c.Endpoints)-1]
		}
		ep.APIKey = ov.OpenAIAPIKey
		if ov.OpenAIBaseURL != "" {
			ep.URL = ov.OpenAIBaseURL
		}
		if ep.Model == "" {
			ep.Model = ov.OpenAIModel
		}
	}

	if ov.Debug {
		c.Debug = true
	}

	return nil
}

func (c *Config) firstOfKind(kind string) *EndpointConfig {
	for i := range c.Endpoints {
		if c.Endpoints[i].Kind == kind {
			return &c.Endpoints[i]
		}
	}
	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("at least one endpoint must be configured")
	}

	for i, ep := range c.Endpoints {
		if err := ep.validate(); err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
	}

	if len(c.Content.Suggestions) == 0 {
		return fmt.Errorf("content.suggestions must not be empty")
	}
	if c.Content.ErrorReply == "" {
		return fmt.Errorf("content.error_reply must not be empty")
	}
	if c.Content.ErrorNotice == "" {
		return fmt.Errorf("content.error_notice must not be empty")
	}

	return nil
}

func (e EndpointConfig) validate() error {
	if e.Name == "" {
		return fmt.Errorf("name must not be empty")
	}

	switch e.Kind {
	case KindAgent, KindCompletion:
		if e.URL == "" {
			return fmt.Errorf("%s: url must not be empty", e.Name)
		}
	case KindOpenAI:
		// An empty URL selects the default OpenAI base URL.
		if e.APIKey == "" {
			return fmt.Errorf("%s: api_key must not be empty", e.Name)
		}
		if e.Model == "" {
			return fmt.Errorf("%s: model must not be empty", e.Name)
		}
	default:
		return fmt.Errorf("%s: unknown kind %q", e.Name, e.Kind)
	}

	return nil
}
