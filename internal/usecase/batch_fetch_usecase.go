package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"VakitApp/internal/domain/helper"
	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/domain/repository"
)

// BatchConfig tunes the batch fetcher. Zero values fall back to the defaults
// used against the production API.
type BatchConfig struct {
	// MonthCount is the size of the rolling window: current month plus the
	// following months.
	MonthCount int

	// RequestDelay is the fixed pause after every live API attempt,
	// regardless of outcome, to respect upstream rate limits.
	RequestDelay time.Duration

	MaxAttempts       int
	BackoffBase       time.Duration
	RateLimitCooldown time.Duration
}

func (c BatchConfig) withDefaults() BatchConfig {
	if c.MonthCount == 0 {
		c.MonthCount = 3
	}
	if c.RequestDelay == 0 {
		c.RequestDelay = 1500 * time.Millisecond
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = 2 * time.Second
	}
	if c.RateLimitCooldown == 0 {
		c.RateLimitCooldown = 5 * time.Second
	}
	return c
}

// BatchFetchUseCase pre-fetches monthly calendars for every district across
// the rolling month window, writing the monthly archive the retrieval
// pipeline reads from.
type BatchFetchUseCase interface {
	// Run walks all districts × the month window sequentially. It stops
	// between iterations when ctx is cancelled and reports what it did.
	Run(ctx context.Context) (*model.BatchReport, error)
}

type batchFetchUseCaseImpl struct {
	reg      *registry.Registry
	archive  repository.Store
	provider repository.PrayerTimesProvider
	failures repository.FailureLogger
	cfg      BatchConfig
	now      func() time.Time
}

func NewBatchFetchUseCase(
	reg *registry.Registry,
	archive repository.Store,
	provider repository.PrayerTimesProvider,
	failures repository.FailureLogger,
	cfg BatchConfig,
) BatchFetchUseCase {
	return &batchFetchUseCaseImpl{
		reg:      reg,
		archive:  archive,
		provider: provider,
		failures: failures,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

func (u *batchFetchUseCaseImpl) Run(ctx context.Context) (*model.BatchReport, error) {
	started := u.now()
	report := &model.BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: started,
	}
	window := model.MonthWindow(started, u.cfg.MonthCount)

	log.Printf("[Batch %s] fetching %d months × %d districts", report.RunID, len(window), u.reg.Count())

	districts := u.reg.All()
	for _, ym := range window {
		monthReport := model.MonthReport{Month: ym}

		for i := range districts {
			if err := ctx.Err(); err != nil {
				// cancellation between iterations; nothing mid-flight to
				// resume beyond the skip-if-exists check on the next run
				u.finishReport(report, monthReport, started)
				return report, err
			}

			district := &districts[i]
			outcome := u.fetchOne(ctx, district, ym, report.RunID)
			switch outcome {
			case outcomeSkipped:
				monthReport.Skipped++
			case outcomeSucceeded:
				monthReport.Succeeded++
			case outcomeFailed:
				monthReport.Failed++
			}

			if outcome != outcomeSkipped {
				if err := helper.Sleep(ctx, u.cfg.RequestDelay); err != nil {
					u.finishReport(report, monthReport, started)
					return report, err
				}
			}
		}

		log.Printf("[Batch %s] %s done: %d ok, %d failed, %d already present",
			report.RunID, ym.Label(), monthReport.Succeeded, monthReport.Failed, monthReport.Skipped)
		report.Months = append(report.Months, monthReport)
		report.Succeeded += monthReport.Succeeded
		report.Failed += monthReport.Failed
		report.Skipped += monthReport.Skipped
	}

	report.Elapsed = u.now().Sub(started)
	return report, nil
}

type fetchOutcome int

const (
	outcomeSkipped fetchOutcome = iota
	outcomeSucceeded
	outcomeFailed
)

// fetchOne handles a single (district, month) pair: skip when already
// archived, otherwise fetch with retries and persist the whole document.
func (u *batchFetchUseCaseImpl) fetchOne(ctx context.Context, district *model.District, ym model.YearMonth, runID string) fetchOutcome {
	key := archiveKey(district, ym.Year, ym.Month)

	exists, err := u.archive.Exists(ctx, key)
	if err != nil {
		u.recordFailure(runID, district, ym, fmt.Sprintf("archive check failed: %v", err))
		return outcomeFailed
	}
	if exists {
		return outcomeSkipped
	}

	if !district.HasCoordinates() {
		u.recordFailure(runID, district, ym, "missing coordinates")
		return outcomeFailed
	}

	var days []model.DayRecord
	err = helper.Retry(ctx, u.cfg.MaxAttempts,
		helper.LinearBackoff(u.cfg.BackoffBase),
		helper.LinearBackoff(u.cfg.RateLimitCooldown),
		func() error {
			fetched, err := u.provider.Calendar(ctx, district.Point(), ym.Year, ym.Month)
			if err != nil {
				return err
			}
			days = fetched
			return nil
		})
	if err != nil {
		u.recordFailure(runID, district, ym, fmt.Sprintf("no data from API: %v", err))
		return outcomeFailed
	}

	raw, err := json.Marshal(days)
	if err != nil {
		u.recordFailure(runID, district, ym, fmt.Sprintf("failed to encode document: %v", err))
		return outcomeFailed
	}
	if err := u.archive.Put(ctx, key, raw); err != nil {
		u.recordFailure(runID, district, ym, fmt.Sprintf("failed to write document: %v", err))
		return outcomeFailed
	}
	return outcomeSucceeded
}

func (u *batchFetchUseCaseImpl) recordFailure(runID string, district *model.District, ym model.YearMonth, reason string) {
	log.Printf("[Batch %s] %s/%s %s failed: %s", runID, district.CityName, district.DistrictName, ym.Label(), reason)
	if u.failures == nil {
		return
	}
	if err := u.failures.Record(runID, district, fmt.Sprintf("%s - %s", ym.Label(), reason)); err != nil {
		log.Printf("[Batch %s] failure log write failed: %v", runID, err)
	}
}

// finishReport closes out a run interrupted by cancellation so the partial
// counts still reach the caller.
func (u *batchFetchUseCaseImpl) finishReport(report *model.BatchReport, current model.MonthReport, started time.Time) {
	report.Months = append(report.Months, current)
	report.Succeeded += current.Succeeded
	report.Failed += current.Failed
	report.Skipped += current.Skipped
	report.Elapsed = u.now().Sub(started)
}
