package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"VakitApp/internal/config"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/infrastructure/aladhan"
	"VakitApp/internal/repository"
	"VakitApp/internal/usecase"
)

func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := registry.LoadFile(config.CatalogPath())
	if err != nil {
		log.Fatalf("failed to load district catalog: %v", err)
	}

	stores, err := config.NewStores(ctx)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer stores.Close()

	failures := repository.NewFileFailureLogger(config.Getenv("FAILURE_LOG", "data/fetch_failures.log"))
	if err := failures.Truncate(); err != nil {
		log.Printf("[Fetcher] failed to clear failure log: %v", err)
	}

	batch := usecase.NewBatchFetchUseCase(reg, stores.Archive, aladhan.NewClient(), failures, usecase.BatchConfig{
		MonthCount:   config.GetenvInt("FETCH_MONTHS", 3),
		RequestDelay: config.GetenvDuration("FETCH_DELAY_MS", 0),
	})

	report, err := batch.Run(ctx)
	if report != nil {
		log.Printf("[Fetcher] run %s finished in %s: %d ok, %d failed, %d skipped (%.1f%% success)",
			report.RunID, report.Elapsed.Round(time.Second), report.Succeeded, report.Failed, report.Skipped,
			report.SuccessRate()*100)
	}
	if err != nil {
		log.Fatalf("[Fetcher] run aborted: %v", err)
	}
}
