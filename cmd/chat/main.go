// chat is an interactive terminal client for one consultation
// conversation. It seeds the log from the REST API, keeps the live
// WebSocket channel open, and reads outbound messages from stdin.
//
// Commands: /read marks the conversation read, /reconnect forces a
// reconnect bypassing backoff, /quit exits. Any other line is sent as a
// message.
//
// Usage: go run ./cmd/chat --config configs/client.yaml
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lexconnect/conversa/internal/api"
	"github.com/lexconnect/conversa/internal/config"
	"github.com/lexconnect/conversa/internal/connection"
	"github.com/lexconnect/conversa/internal/metrics"
	"github.com/lexconnect/conversa/internal/model"
	"github.com/lexconnect/conversa/internal/session"
	"github.com/lexconnect/conversa/internal/store"
	"github.com/lexconnect/conversa/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/client.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting chat client", "version", version.String(), "config", *configPath)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Conversation.ID == "" {
		logger.Error("conversation.id is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Token,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout.Duration()),
		api.WithRetries(cfg.API.MaxRetries, cfg.Connection.ReconnectBaseDelay.Duration()),
	)

	conv, err := apiClient.GetConversation(ctx, cfg.Conversation.ID)
	if err != nil {
		logger.Error("failed to fetch conversation", "error", err)
		os.Exit(1)
	}
	logger.Info("conversation loaded",
		"id", conv.ID,
		"status", conv.Status,
		"lawyer", conv.Lawyer.Name,
	)

	history, err := apiClient.GetMessages(ctx, cfg.Conversation.ID, 0)
	if err != nil {
		logger.Error("failed to fetch history", "error", err)
		os.Exit(1)
	}

	st := store.New(logger)
	st.Seed(history)
	for _, msg := range history {
		printMessage(msg)
	}

	mgrCfg := connection.DefaultManagerConfig()
	mgrCfg.BaseURL = cfg.API.BaseURL
	mgrCfg.Policy = connection.ReconnectPolicy{
		BaseDelay:   cfg.Connection.ReconnectBaseDelay.Duration(),
		MaxDelay:    cfg.Connection.ReconnectMaxDelay.Duration(),
		MaxAttempts: cfg.Connection.MaxReconnectAttempts,
	}
	mgrCfg.TypingDebounce = cfg.Connection.TypingDebounce.Duration()
	mgrCfg.Client.HandshakeTimeout = cfg.Connection.HandshakeTimeout.Duration()
	mgrCfg.Client.WriteTimeout = cfg.Connection.WriteTimeout.Duration()
	mgrCfg.Client.PingInterval = cfg.Connection.PingInterval.Duration()
	mgrCfg.Client.BufferSize = cfg.Connection.BufferSize

	manager := connection.NewManager(mgrCfg, st, logger)
	coordinator := session.NewCoordinator(manager, logger)

	events := st.Subscribe()

	teardown := coordinator.Bind(model.Identity{
		ConversationID: cfg.Conversation.ID,
		Token:          cfg.API.Token,
	})
	defer teardown()

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsHandler(cfg.Metrics.Path),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving metrics", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return metricsSrv.Close()
	})

	g.Go(func() error {
		printEvents(ctx, events)
		return nil
	})

	g.Go(func() error {
		return readInput(ctx, manager, logger)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("client stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("chat client stopped")
}

func metricsHandler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	return mux
}

// printEvents renders store events to the terminal.
func printEvents(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev.Kind {
			case store.EventMessage:
				printMessage(*ev.Message)
			case store.EventTyping:
				if ev.Typing {
					fmt.Println("* counterpart is typing...")
				}
			case store.EventState:
				fmt.Printf("* connection %s\n", ev.State)
			case store.EventError:
				if ev.Err != nil {
					fmt.Printf("! %v\n", ev.Err)
				}
			}
		}
	}
}

func printMessage(msg model.Message) {
	fmt.Printf("[%s] %s: %s\n", msg.Timestamp, msg.SenderRole, msg.Text)
}

// readInput forwards stdin lines as messages or commands.
func readInput(ctx context.Context, manager *connection.Manager, logger *slog.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit":
			return nil
		case "/read":
			if err := manager.MarkRead(); err != nil {
				logger.Warn("mark read failed", "error", err)
			}
		case "/reconnect":
			manager.Reconnect()
		default:
			manager.SignalTyping(false)
			if err := manager.Send(line); err != nil {
				logger.Warn("send failed", "error", err)
			}
		}
	}
	return scanner.Err()
}
