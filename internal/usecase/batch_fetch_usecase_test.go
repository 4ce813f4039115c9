package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/registry"
	repoimpl "VakitApp/internal/repository"
)

// memoryFailureLog collects failure records in memory.
type memoryFailureLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *memoryFailureLog) Record(runID string, district *model.District, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, district.DistrictName+": "+reason)
	return nil
}

func fastBatchConfig() BatchConfig {
	return BatchConfig{
		MonthCount:        3,
		RequestDelay:      time.Nanosecond,
		MaxAttempts:       3,
		BackoffBase:       time.Nanosecond,
		RateLimitCooldown: time.Nanosecond,
	}
}

type batchFixture struct {
	uc       *batchFetchUseCaseImpl
	reg      *registry.Registry
	archive  *repoimpl.MemoryStore
	provider *stubProvider
	failures *memoryFailureLog
	today    time.Time
}

func newBatchFixture(t *testing.T, catalog string) *batchFixture {
	t.Helper()
	reg, err := registry.Load(strings.NewReader(catalog))
	require.NoError(t, err)

	archive := repoimpl.NewMemoryStore()
	provider := &stubProvider{days: monthOfDays(31, nil)}
	failures := &memoryFailureLog{}
	today := time.Date(2026, time.August, 29, 2, 0, 0, 0, time.Local)

	uc := NewBatchFetchUseCase(reg, archive, provider, failures, fastBatchConfig()).(*batchFetchUseCaseImpl)
	uc.now = func() time.Time { return today }
	archive.SetClock(uc.now)

	return &batchFixture{uc: uc, reg: reg, archive: archive, provider: provider, failures: failures, today: today}
}

const smallCatalog = `[
	{"district_name":"BEYOĞLU","city_name":"İSTANBUL","latitude":41.0370,"longitude":28.9850},
	{"district_name":"MERKEZ","city_name":"ZONGULDAK","latitude":41.4564,"longitude":31.7987}
]`

func TestBatchFetchesAllPairs(t *testing.T) {
	f := newBatchFixture(t, smallCatalog)

	report, err := f.uc.Run(context.Background())
	require.NoError(t, err)

	// 2 districts × 3 months
	assert.Equal(t, 6, f.provider.calendarCalls)
	assert.Equal(t, 6, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Skipped)
	assert.Len(t, report.Months, 3)
	assert.NotEmpty(t, report.RunID)

	// window starts at the current month
	assert.Equal(t, model.YearMonth{Year: 2026, Month: time.August}, report.Months[0].Month)
	assert.Equal(t, model.YearMonth{Year: 2026, Month: time.October}, report.Months[2].Month)

	keys, err := f.archive.Keys(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 6)
	assert.Contains(t, keys, "beyoglu_2026_08.json")
	assert.Contains(t, keys, "merkez_2026_10.json")
}

func TestBatchIsIdempotent(t *testing.T) {
	f := newBatchFixture(t, smallCatalog)

	_, err := f.uc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, f.provider.calendarCalls)

	report, err := f.uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, f.provider.calendarCalls, "a fully populated archive must cause zero live calls")
	assert.Zero(t, report.Succeeded)
	assert.Equal(t, 6, report.Skipped)
}

func TestBatchRecordsFailuresAndContinues(t *testing.T) {
	catalog := `[
		{"district_name":"YALIHÜYÜK","city_name":"KONYA","latitude":0,"longitude":0},
		{"district_name":"BEYOĞLU","city_name":"İSTANBUL","latitude":41.0370,"longitude":28.9850}
	]`
	f := newBatchFixture(t, catalog)

	report, err := f.uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Failed, "the district without coordinates fails every month")
	assert.Equal(t, 3, report.Succeeded, "later districts must still be processed")
	assert.Len(t, f.failures.entries, 3)
	assert.Contains(t, f.failures.entries[0], "missing coordinates")
}

func TestBatchRetriesUpstreamErrors(t *testing.T) {
	f := newBatchFixture(t, `[{"district_name":"BEYOĞLU","city_name":"İSTANBUL","latitude":41.0370,"longitude":28.9850}]`)
	f.provider.err = &model.UpstreamError{StatusCode: 502, Reason: "bad gateway"}

	report, err := f.uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Failed)
	// 3 months × 3 attempts
	assert.Equal(t, 9, f.provider.calendarCalls)
	assert.Len(t, f.failures.entries, 3)
}

func TestBatchStopsOnCancellation(t *testing.T) {
	f := newBatchFixture(t, smallCatalog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.uc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report, "a cancelled run still reports partial counts")
	assert.Zero(t, f.provider.calendarCalls)
}

func TestBatchArchiveRoundTripServesPipeline(t *testing.T) {
	reg, err := registry.Load(strings.NewReader(smallCatalog))
	require.NoError(t, err)

	today := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.Local)
	wantDay := validDay("03:59")
	days := monthOfDays(31, nil)
	days[today.Day()-1] = *wantDay

	archive := repoimpl.NewMemoryStore()
	batchProvider := &stubProvider{days: days}
	batch := NewBatchFetchUseCase(reg, archive, batchProvider, &memoryFailureLog{}, fastBatchConfig()).(*batchFetchUseCaseImpl)
	batch.now = func() time.Time { return today }

	_, err = batch.Run(context.Background())
	require.NoError(t, err)

	// the pipeline must reproduce the exact timings for today out of the
	// document the batch wrote, without touching the network
	cache := repoimpl.NewMemoryStore()
	pipelineProvider := &stubProvider{}
	pipeline := NewPrayerTimesUseCase(reg, cache, archive, pipelineProvider).(*prayerTimesUseCaseImpl)
	pipeline.now = batch.now
	cache.SetClock(batch.now)

	result, err := pipeline.GetPrayerTimes(context.Background(), "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceMonthlyData, result.Source)
	assert.Equal(t, wantDay.Timings, result.Data.Timings)
	assert.Zero(t, pipelineProvider.timingsCalls)
}
