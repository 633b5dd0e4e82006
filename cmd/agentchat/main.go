package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"agentchat/pkg/api"
	"agentchat/pkg/chat"
	"agentchat/pkg/config"
	"agentchat/pkg/logging"
	"agentchat/pkg/sse"
	"agentchat/pkg/ui"
	"agentchat/pkg/version"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	serverURL := flag.String("server", "", "override the backend server URL")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s, %s)\n", version.AppName, version.Summary(), version.Platform(), version.GoVersion)
		return
	}

	// Load configuration
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "agentchat must run in an interactive terminal")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.ServerURL, cfg.SessionID, time.Duration(cfg.APITimeoutSeconds)*time.Second)
	stream := chat.NewStream(client)

	// The SSE client reconnects on its own until the context is cancelled
	events := sse.NewClient(cfg.ServerURL, cfg.SessionID)
	go events.Run(ctx)

	slog.Info("agentchat_start",
		"version", version.Summary(),
		"session", cfg.SessionID,
		"server", cfg.ServerURL,
	)

	model := ui.NewModel(cfg, client, stream, events.Events(), events.States())
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	slog.Info("agentchat_exit")
}
