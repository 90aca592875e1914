package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"wealthify/internal/amqp"
	"wealthify/internal/api"
	"wealthify/internal/cli"
	"wealthify/internal/mockapi"
	"wealthify/internal/session"
	"wealthify/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the relay worker")
		os.Exit(1)
	}

	// The worker shares the server's slot store so relayed requests
	// carry the session's bearer token.
	store := cli.OpenSlotStore(logger, cfg.LedgerDBPath)
	defer store.Close()
	sess := session.NewManager(store)

	var svc api.Service
	switch cfg.DataBackend {
	case "rest":
		svc = api.NewClient(cfg.APIBaseURL, sess)
		logger.Info("Relaying to REST backend", "base_url", cfg.APIBaseURL)
	default:
		svc = mockapi.New()
		logger.Info("Relaying to in-memory backend")
	}

	queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	relay := worker.NewRelayWorker(svc)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting relay worker", "queue", cfg.AMQPQueue)
	err = queue.ConsumeImportedRows(runCtx, func(msg *amqp.ImportedRowMessage) error {
		return relay.HandleImportedRow(runCtx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
