// File: cmd/chat/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iyunix/go-chatfront/internal/config"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/api"
	"github.com/iyunix/go-chatfront/internal/services/conversation"
	"github.com/iyunix/go-chatfront/internal/tui"
)

func main() {
	localDays := flag.Bool("local-days", false, "group messages by local calendar day instead of UTC")
	logPath := flag.String("log", "chat.log", "file the terminal client logs to")
	flag.Parse()

	cfg := config.Load()

	// The terminal belongs to the UI, so logs go to a file.
	logger := services.NewLoggerTo("chat", *logPath)
	defer services.SyncLogger(logger)

	hostname := config.Hostname()
	base := config.ResolveBaseURL(cfg.APIBaseOverride, hostname)

	client, err := api.NewClient(&api.Config{
		BaseURL: base,
		Origin:  api.DefaultOrigin(hostname),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Chat client starting", "base_url", client.BaseURL(), "local_days", *localDays)

	var opts []conversation.Option
	if *localDays {
		opts = append(opts, conversation.WithLocation(time.Local))
	}
	session := conversation.NewSession(client, logger, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("Terminal UI exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}
