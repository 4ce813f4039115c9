package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"VakitApp/internal/config"
	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/infrastructure/aladhan"
	"VakitApp/internal/repository"
	"VakitApp/internal/usecase"
)

// monthlySchedule fires at 02:00 on the first day of every month, giving the
// archive its next three-month window before the old one runs out.
const monthlySchedule = "0 2 1 * *"

// scheduler serializes batch runs and remembers the last outcome for /status.
type scheduler struct {
	batch usecase.BatchFetchUseCase

	mu         sync.Mutex
	running    bool
	lastReport *model.BatchReport
	lastError  error
	lastRunAt  time.Time
}

// trigger starts a run unless one is already in flight.
func (s *scheduler) trigger(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.lastRunAt = time.Now()
	s.mu.Unlock()

	go func() {
		report, err := s.batch.Run(ctx)

		s.mu.Lock()
		s.running = false
		s.lastReport = report
		s.lastError = err
		s.mu.Unlock()

		if err != nil {
			log.Printf("[AutoUpdate] run failed: %v", err)
			return
		}
		log.Printf("[AutoUpdate] run %s done: %d ok, %d failed, %d skipped",
			report.RunID, report.Succeeded, report.Failed, report.Skipped)
	}()
	return true
}

func (s *scheduler) status(nextRun time.Time) gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := gin.H{
		"running": s.running,
		"nextRun": nextRun.Format(time.RFC3339),
	}
	if !s.lastRunAt.IsZero() {
		status["lastRunAt"] = s.lastRunAt.Format(time.RFC3339)
	}
	if s.lastError != nil {
		status["lastError"] = s.lastError.Error()
	}
	if s.lastReport != nil {
		status["lastReport"] = gin.H{
			"runId":     s.lastReport.RunID,
			"succeeded": s.lastReport.Succeeded,
			"failed":    s.lastReport.Failed,
			"skipped":   s.lastReport.Skipped,
		}
	}
	return status
}

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
	batch := usecase.NewBatchFetchUseCase(reg, stores.Archive, aladhan.NewClient(), failures, usecase.BatchConfig{
		MonthCount:   config.GetenvInt("FETCH_MONTHS", 3),
		RequestDelay: config.GetenvDuration("FETCH_DELAY_MS", 0),
	})
	sched := &scheduler{batch: batch}

	c := cron.New()
	entryID, err := c.AddFunc(monthlySchedule, func() {
		if !sched.trigger(ctx) {
			log.Println("[AutoUpdate] scheduled run skipped, another run is in flight")
		}
	})
	if err != nil {
		log.Fatalf("invalid cron schedule: %v", err)
	}
	c.Start()
	defer c.Stop()

	router := gin.Default()
	router.GET("/trigger-update", func(gc *gin.Context) {
		if !sched.trigger(ctx) {
			gc.JSON(http.StatusConflict, gin.H{"success": false, "message": "an update is already running"})
			return
		}
		gc.JSON(http.StatusAccepted, gin.H{"success": true, "message": "update started"})
	})
	router.GET("/status", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, sched.status(c.Entry(entryID).Next))
	})

	port := config.Getenv("SCHEDULER_PORT", "3001")
	srv := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		log.Printf("[AutoUpdate] scheduler listening on :%s, next run %s",
			port, c.Entry(entryID).Next.Format(time.RFC3339))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("scheduler server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[AutoUpdate] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[AutoUpdate] shutdown error: %v", err)
	}
}
