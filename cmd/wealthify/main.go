package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wealthify/internal/adapters"
	"wealthify/internal/amqp"
	"wealthify/internal/api"
	"wealthify/internal/cli"
	"wealthify/internal/export/sheets"
	apphttp "wealthify/internal/http"
	"wealthify/internal/ledger"
	"wealthify/internal/mockapi"
	"wealthify/internal/services"
	"wealthify/internal/session"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenSlotStore(logger, cfg.LedgerDBPath)
	defer store.Close()

	ctx := context.Background()
	led, err := ledger.New(ctx, adapters.NewSlotAdapter(store))
	if err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	sess := session.NewManager(store)

	var svc api.Service
	switch cfg.DataBackend {
	case "rest":
		svc = api.NewClient(cfg.APIBaseURL, sess)
		logger.Info("Using REST backend", "base_url", cfg.APIBaseURL)
	default:
		svc = mockapi.New()
		logger.Info("Using in-memory backend")
	}

	// The import queue is optional; without a broker imported rows stay
	// local and are never relayed to the collaborator.
	var publisher services.RowPublisher
	if cfg.AMQPURL != "" {
		queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP, imports stay local", "error", err)
		} else {
			defer queue.Close()
			publisher = queue
			logger.Info("Connected to import queue", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	importer := services.NewImportService(led, publisher)

	var exporter apphttp.SheetsExporter
	if cfg.SheetsExportEnabled() {
		client, err := sheets.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize sheets export", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Sheets export enabled", "sheet", cfg.GoogleSheetName)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Ledger:    led,
		Session:   sess,
		Service:   svc,
		Importer:  importer,
		Sheets:    exporter,
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Info("Starting wealthify server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
