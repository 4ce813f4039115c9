package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/normalize"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/domain/repository"
	"VakitApp/internal/domain/resolver"
)

// PrayerTimesUseCase is the tiered retrieval pipeline: daily cache, then
// monthly archive, then a single live API attempt.
type PrayerTimesUseCase interface {
	// GetPrayerTimes satisfies a free-text place query. The result carries
	// either prayer data with its provenance tag or a city disambiguation
	// payload. Failures are *model.NotFoundError or *model.UpstreamError.
	GetPrayerTimes(ctx context.Context, query string) (*model.PrayerTimesResult, error)

	// CleanExpiredCache deletes daily cache entries whose last write was not
	// today and returns how many were removed.
	CleanExpiredCache(ctx context.Context) (int, error)
}

type prayerTimesUseCaseImpl struct {
	reg      *registry.Registry
	res      *resolver.Resolver
	cache    repository.Store
	archive  repository.Store
	provider repository.PrayerTimesProvider
	now      func() time.Time
}

func NewPrayerTimesUseCase(
	reg *registry.Registry,
	cache repository.Store,
	archive repository.Store,
	provider repository.PrayerTimesProvider,
) PrayerTimesUseCase {
	return &prayerTimesUseCaseImpl{
		reg:      reg,
		res:      resolver.NewResolver(reg),
		cache:    cache,
		archive:  archive,
		provider: provider,
		now:      time.Now,
	}
}

// cacheKey is the daily cache entry name for a query.
func cacheKey(query string) string {
	return normalize.Normalize(query) + ".json"
}

// archiveKey is the monthly archive entry name for a district and month.
func archiveKey(d *model.District, year int, month time.Month) string {
	return fmt.Sprintf("%s_%d_%02d.json", normalize.FileName(d.DistrictName), year, int(month))
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (u *prayerTimesUseCaseImpl) GetPrayerTimes(ctx context.Context, query string) (*model.PrayerTimesResult, error) {
	today := u.now()

	// Tier 1: daily cache, valid only for the calendar day it was written.
	if data := u.readDailyCache(ctx, query, today); data != nil {
		return &model.PrayerTimesResult{Source: model.SourceCache, Data: data}, nil
	}

	resolution, err := u.res.Resolve(query)
	if err != nil {
		return nil, err
	}
	if resolution.Ambiguity != nil {
		return &model.PrayerTimesResult{Ambiguity: resolution.Ambiguity}, nil
	}

	district := resolution.District
	if !district.HasCoordinates() {
		// a structurally found record without coordinates cannot be served
		return nil, &model.NotFoundError{Query: query}
	}

	// Tier 2: pre-fetched monthly archive.
	if data := u.readMonthlyArchive(ctx, district, today); data != nil {
		u.writeDailyCache(ctx, query, data)
		return &model.PrayerTimesResult{Source: model.SourceMonthlyData, Data: data}, nil
	}

	// Tier 3: one live attempt, never retried inside a user request.
	day, err := u.provider.Timings(ctx, district.Point())
	if err != nil {
		return nil, err
	}

	data := u.buildPrayerData(district, day, model.SourceAPI)
	u.writeDailyCache(ctx, query, data)
	return &model.PrayerTimesResult{Source: model.SourceAPI, Data: data}, nil
}

// readDailyCache returns today's cached entry for the query, or nil. Entries
// written on an earlier day are expired and opportunistically removed.
func (u *prayerTimesUseCaseImpl) readDailyCache(ctx context.Context, query string, today time.Time) *model.PrayerData {
	key := cacheKey(query)

	mtime, err := u.cache.Mtime(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[Cache] failed to stat %s: %v", key, err)
		return nil
	}

	if !sameCalendarDay(mtime, today) {
		if err := u.cache.Delete(ctx, key); err != nil {
			log.Printf("[Cache] failed to delete expired %s: %v", key, err)
		}
		return nil
	}

	raw, err := u.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Cache] failed to read %s: %v", key, err)
		return nil
	}

	var data model.PrayerData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[Cache] corrupt entry %s: %v", key, err)
		return nil
	}
	return &data
}

// readMonthlyArchive extracts today's record from the district's pre-fetched
// month document, or nil when the archive has nothing usable.
func (u *prayerTimesUseCaseImpl) readMonthlyArchive(ctx context.Context, district *model.District, today time.Time) *model.PrayerData {
	key := archiveKey(district, today.Year(), today.Month())

	raw, err := u.archive.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[Archive] failed to read %s: %v", key, err)
		return nil
	}

	var days []model.DayRecord
	if err := json.Unmarshal(raw, &days); err != nil {
		log.Printf("[Archive] corrupt document %s: %v", key, err)
		return nil
	}

	// days are 1-based, the sequence is 0-indexed
	dayOfMonth := today.Day()
	if len(days) < dayOfMonth {
		log.Printf("[Archive] %s has %d days, need day %d", key, len(days), dayOfMonth)
		return nil
	}

	day := days[dayOfMonth-1]
	if !day.HasTimings(model.RequiredTimings) {
		log.Printf("[Archive] %s day %d is missing timings", key, dayOfMonth)
		return nil
	}

	return u.buildPrayerData(district, &day, model.SourceMonthlyData)
}

func (u *prayerTimesUseCaseImpl) buildPrayerData(district *model.District, day *model.DayRecord, source string) *model.PrayerData {
	return &model.PrayerData{
		Timings: day.Timings,
		Date:    day.Date,
		Meta:    day.Meta,
		Location: &model.LocationInfo{
			District: district.DistrictName,
			City:     district.CityName,
			Coordinates: model.Coordinates{
				Latitude:  district.Latitude,
				Longitude: district.Longitude,
			},
		},
		Source:   source,
		CachedAt: u.now(),
	}
}

// writeDailyCache persists the result for the rest of the day. Write failures
// only downgrade the response to the in-memory result; they never surface to
// the caller.
func (u *prayerTimesUseCaseImpl) writeDailyCache(ctx context.Context, query string, data *model.PrayerData) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Cache] failed to encode entry for %q: %v", query, err)
		return
	}
	if err := u.cache.Put(ctx, cacheKey(query), raw); err != nil {
		log.Printf("[Cache] failed to write entry for %q: %v", query, err)
	}
}

func (u *prayerTimesUseCaseImpl) CleanExpiredCache(ctx context.Context) (int, error) {
	keys, err := u.cache.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}

	today := u.now()
	removed := 0
	for _, key := range keys {
		mtime, err := u.cache.Mtime(ctx, key)
		if err != nil {
			continue
		}
		if sameCalendarDay(mtime, today) {
			continue
		}
		if err := u.cache.Delete(ctx, key); err != nil {
			log.Printf("[Cache] failed to delete expired %s: %v", key, err)
			continue
		}
		removed++
	}
	return removed, nil
}
