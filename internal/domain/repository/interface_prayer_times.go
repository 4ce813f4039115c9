package repository

import (
	"context"
	"time"

	"github.com/paulmach/orb"

	"VakitApp/internal/domain/model"
)

// PrayerTimesProvider is the outbound contract to the astronomical
// calculation API. Implementations validate responses at the boundary and
// return *model.UpstreamError for every failure mode; callers never see raw
// transport errors.
type PrayerTimesProvider interface {
	// Timings fetches today's schedule for the given coordinates.
	Timings(ctx context.Context, loc orb.Point) (*model.DayRecord, error)

	// Calendar fetches the full day sequence of one month.
	Calendar(ctx context.Context, loc orb.Point, year int, month time.Month) ([]model.DayRecord, error)
}
