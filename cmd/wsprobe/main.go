// wsprobe connects to one conversation channel and dumps every raw
// frame to stdout. Useful for debugging server behavior without the
// full client.
//
// Usage: go run ./cmd/wsprobe --config configs/client.yaml --conversation c1
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lexconnect/conversa/internal/config"
	"github.com/lexconnect/conversa/internal/connection"
	"github.com/lexconnect/conversa/internal/model"
)

func main() {
	configPath := flag.String("config", "configs/client.yaml", "path to config file")
	conversationID := flag.String("conversation", "", "conversation ID (overrides config)")
	verbose := flag.Bool("verbose", false, "pretty-print frame JSON")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	convID := cfg.Conversation.ID
	if *conversationID != "" {
		convID = *conversationID
	}
	identity := model.Identity{ConversationID: convID, Token: cfg.API.Token}
	if !identity.Complete() {
		logger.Error("conversation ID and api.token are both required")
		os.Exit(1)
	}

	endpoint, err := connection.Endpoint(cfg.API.BaseURL, identity)
	if err != nil {
		logger.Error("failed to compose endpoint", "error", err)
		os.Exit(1)
	}
	logger.Info("dialing", "endpoint", endpoint)

	clientCfg := connection.DefaultClientConfig()
	clientCfg.URL = endpoint
	clientCfg.HandshakeTimeout = cfg.Connection.HandshakeTimeout.Duration()
	clientCfg.PingInterval = cfg.Connection.PingInterval.Duration()
	clientCfg.WriteTimeout = cfg.Connection.WriteTimeout.Duration()
	clientCfg.BufferSize = cfg.Connection.BufferSize

	client := connection.NewClient(clientCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	if err := client.Connect(ctx); err != nil {
		logger.Error("dial failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	count := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("probe stopped", "frames", count)
			return

		case err := <-client.Errors():
			logger.Error("connection error", "error", err, "frames", count)
			return

		case data, ok := <-client.Messages():
			if !ok {
				logger.Info("connection closed", "frames", count)
				return
			}
			count++
			if *verbose {
				var pretty map[string]any
				if err := json.Unmarshal(data, &pretty); err == nil {
					out, _ := json.MarshalIndent(pretty, "", "  ")
					fmt.Println(string(out))
					continue
				}
			}
			fmt.Println(string(data))
		}
	}
}
