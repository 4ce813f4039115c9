package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/domain/resolver"
	repoimpl "VakitApp/internal/repository"
)

const testCatalog = `[
	{"district_name":"BEYOĞLU","city_name":"İSTANBUL","latitude":41.0370,"longitude":28.9850},
	{"district_name":"KADIKÖY","city_name":"İSTANBUL","latitude":40.9900,"longitude":29.0270},
	{"district_name":"MERKEZ","city_name":"ZONGULDAK","latitude":41.4564,"longitude":31.7987},
	{"district_name":"YALIHÜYÜK","city_name":"KONYA","latitude":0,"longitude":0}
]`

// stubProvider counts calls and returns canned day records, standing in for
// the live API.
type stubProvider struct {
	timingsCalls  int
	calendarCalls int
	day           *model.DayRecord
	days          []model.DayRecord
	err           error
}

func (s *stubProvider) Timings(ctx context.Context, loc orb.Point) (*model.DayRecord, error) {
	s.timingsCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.day, nil
}

func (s *stubProvider) Calendar(ctx context.Context, loc orb.Point, year int, month time.Month) ([]model.DayRecord, error) {
	s.calendarCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.days, nil
}

func validDay(fajr string) *model.DayRecord {
	return &model.DayRecord{
		Timings: map[string]string{
			model.TimingFajr:    fajr,
			model.TimingSunrise: "06:01",
			model.TimingDhuhr:   "13:10",
			model.TimingAsr:     "16:55",
			model.TimingMaghrib: "20:10",
			model.TimingIsha:    "21:35",
		},
		Date: json.RawMessage(`{"readable":"29 Aug 2026"}`),
	}
}

type pipelineFixture struct {
	uc       *prayerTimesUseCaseImpl
	cache    *repoimpl.MemoryStore
	archive  *repoimpl.MemoryStore
	provider *stubProvider
	today    time.Time
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	reg, err := registry.Load(strings.NewReader(testCatalog))
	require.NoError(t, err)

	cache := repoimpl.NewMemoryStore()
	archive := repoimpl.NewMemoryStore()
	provider := &stubProvider{day: validDay("04:30")}
	today := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.Local)

	uc := NewPrayerTimesUseCase(reg, cache, archive, provider).(*prayerTimesUseCaseImpl)
	uc.now = func() time.Time { return today }
	cache.SetClock(uc.now)
	archive.SetClock(uc.now)

	return &pipelineFixture{uc: uc, cache: cache, archive: archive, provider: provider, today: today}
}

func (f *pipelineFixture) seedArchive(t *testing.T, district *model.District, days []model.DayRecord) {
	t.Helper()
	raw, err := json.Marshal(days)
	require.NoError(t, err)
	key := archiveKey(district, f.today.Year(), f.today.Month())
	require.NoError(t, f.archive.Put(context.Background(), key, raw))
}

func monthOfDays(n int, dayN *model.DayRecord) []model.DayRecord {
	days := make([]model.DayRecord, n)
	for i := range days {
		days[i] = *validDay("05:00")
	}
	if dayN != nil {
		days[n-1] = *dayN
	}
	return days
}

func (f *pipelineFixture) beyoglu(t *testing.T) *model.District {
	t.Helper()
	res, err := resolver.NewResolver(f.uc.reg).Resolve("beyoglu")
	require.NoError(t, err)
	return res.District
}

func TestPipelineCacheTierWinsOverArchiveAndAPI(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	// seed both a fresh cache entry and a monthly archive document
	cached := model.PrayerData{
		Timings:  map[string]string{model.TimingFajr: "cached"},
		Source:   model.SourceAPI,
		CachedAt: f.today,
	}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, f.cache.Put(ctx, cacheKey("Beyoğlu"), raw))
	f.seedArchive(t, f.beyoglu(t), monthOfDays(31, validDay("04:30")))

	result, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, result.Source)
	assert.Equal(t, "cached", result.Data.Timings[model.TimingFajr])

	// neither the archive nor the network may have been touched
	assert.Zero(t, f.provider.timingsCalls)
	assert.Zero(t, f.provider.calendarCalls)
}

func TestPipelineExpiredCacheIsIgnoredAndDeleted(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	raw, err := json.Marshal(model.PrayerData{Timings: map[string]string{model.TimingFajr: "stale"}})
	require.NoError(t, err)
	require.NoError(t, f.cache.Put(ctx, cacheKey("Beyoğlu"), raw))
	f.cache.SetMtime(cacheKey("Beyoğlu"), f.today.AddDate(0, 0, -1))

	result, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceAPI, result.Source)
	assert.Equal(t, 1, f.provider.timingsCalls)

	// the stale entry was replaced by the fresh one
	fresh, err := f.cache.Get(ctx, cacheKey("Beyoğlu"))
	require.NoError(t, err)
	var data model.PrayerData
	require.NoError(t, json.Unmarshal(fresh, &data))
	assert.Equal(t, "04:30", data.Timings[model.TimingFajr])
}

func TestPipelineArchiveTierBackfillsCache(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	day := validDay("04:44")
	f.seedArchive(t, f.beyoglu(t), monthOfDays(f.today.Day(), day))

	result, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceMonthlyData, result.Source)
	assert.Equal(t, "04:44", result.Data.Timings[model.TimingFajr])
	assert.Equal(t, "BEYOĞLU", result.Data.Location.District)
	assert.Zero(t, f.provider.timingsCalls, "archive hit must not reach the network")

	// the result was opportunistically written to the daily cache
	exists, err := f.cache.Exists(ctx, cacheKey("Beyoğlu"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPipelineShortArchiveFallsThroughToAPI(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	// archive only covers days before today
	f.seedArchive(t, f.beyoglu(t), monthOfDays(f.today.Day()-1, nil))

	result, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceAPI, result.Source)
	assert.Equal(t, 1, f.provider.timingsCalls)
}

func TestPipelineAPITierWritesCache(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	result, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceAPI, result.Source)

	exists, err := f.cache.Exists(ctx, cacheKey("Beyoğlu"))
	require.NoError(t, err)
	assert.True(t, exists)

	// a second request the same day is served from the cache
	result, err = f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, result.Source)
	assert.Equal(t, 1, f.provider.timingsCalls)
}

func TestPipelineUpstreamFailureDoesNotCache(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	f.provider.err = &model.UpstreamError{Reason: "day record is missing required timing fields"}

	_, err := f.uc.GetPrayerTimes(ctx, "Beyoğlu")
	var upstream *model.UpstreamError
	require.ErrorAs(t, err, &upstream)

	exists, checkErr := f.cache.Exists(ctx, cacheKey("Beyoğlu"))
	require.NoError(t, checkErr)
	assert.False(t, exists, "failed upstream calls must not create cache entries")
}

func TestPipelineCityAmbiguity(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := f.uc.GetPrayerTimes(context.Background(), "İstanbul")
	require.NoError(t, err)
	require.NotNil(t, result.Ambiguity)
	assert.Nil(t, result.Data)
	assert.Equal(t, "İSTANBUL", result.Ambiguity.City)
	assert.Len(t, result.Ambiguity.Districts, 2)
}

func TestPipelineNotFound(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.uc.GetPrayerTimes(context.Background(), "Atlantis")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Atlantis", nf.Query)
}

func TestPipelineMissingCoordinatesIsNotFound(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.uc.GetPrayerTimes(context.Background(), "Yalıhüyük")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Zero(t, f.provider.timingsCalls, "missing coordinates must short-circuit before the network")
}

func TestCleanExpiredCache(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Put(ctx, "fresh.json", []byte("{}")))
	require.NoError(t, f.cache.Put(ctx, "stale.json", []byte("{}")))
	f.cache.SetMtime("fresh.json", f.today)
	f.cache.SetMtime("stale.json", f.today.AddDate(0, 0, -2))

	removed, err := f.uc.CleanExpiredCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	exists, _ := f.cache.Exists(ctx, "fresh.json")
	assert.True(t, exists)
	exists, _ = f.cache.Exists(ctx, "stale.json")
	assert.False(t, exists)
}
