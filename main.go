package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"movie-chat/internal/agent"
	"movie-chat/internal/config"
	"movie-chat/internal/conversation"
	"movie-chat/internal/logging"
	"movie-chat/internal/ui"
)

func main() {
	var (
		flagConfigPath = flag.String(
			"config",
			"",
			"configuration file path (default ~/.movie-chat/config.yaml)",
		)
		flagEnvFile = flag.String(
			"env",
			".env",
			"dotenv file with environment overrides",
		)
		flagDebug = flag.Bool(
			"debug",
			false,
			"debug mode, extra logging",
		)
	)

	flag.Parse()

	if err := config.LoadDotEnv(*flagEnvFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	cfg, err := config.Load(*flagConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logDir, err := config.GetLogDir()
	if err != nil {
		log.Fatalf("Failed to resolve log directory: %v", err)
	}
	if err := logging.InitLogger(logDir, cfg.Debug || *flagDebug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	endpoints, err := agent.BuildEndpoints(cfg, agent.NewHTTPClient())
	if err != nil {
		log.Fatalf("Failed to build endpoints: %v", err)
	}

	client, err := agent.NewClient(endpoints...)
	if err != nil {
		log.Fatalf("Failed to create agent client: %v", err)
	}
	logging.Info("Endpoints: %v", client.Endpoints())

	store := conversation.NewStore(conversation.StoreOptions{
		WelcomeGreeting: cfg.Content.WelcomeGreeting,
		ClearedGreeting: cfg.Content.ClearedGreeting,
		Suggestions:     cfg.Content.Suggestions,
	})

	store.Subscribe(func() {
		logging.Debug("Conversation changed: messages=%d loading=%v", store.Len(), store.Loading())
	})

	toaster := ui.NewToaster()
	session := conversation.NewSession(store, client, toaster, conversation.Texts{
		ErrorReply:    cfg.Content.ErrorReply,
		ErrorNotice:   cfg.Content.ErrorNotice,
		ClearedNotice: cfg.Content.ClearedNotice,
	})

	chatView := ui.NewChatViewModel("Movie Chat", session, toaster, client.Endpoints(), 80, 24)

	p := tea.NewProgram(chatView, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("Error running program: %v", err)
		log.Fatalf("Error running program: %v", err)
	}
}
