package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/normalize"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/usecase"
)

// searchResultLimit caps the lookup endpoints.
const searchResultLimit = 50

// PrayerTimesHandler exposes the retrieval pipeline and the registry lookup
// endpoints. All logic lives in the use case; this layer only shapes JSON.
type PrayerTimesHandler struct {
	prayerTimesUseCase usecase.PrayerTimesUseCase
	reg                *registry.Registry
	startedAt          time.Time
}

func NewPrayerTimesHandler(prayerTimesUseCase usecase.PrayerTimesUseCase, reg *registry.Registry) *PrayerTimesHandler {
	return &PrayerTimesHandler{
		prayerTimesUseCase: prayerTimesUseCase,
		reg:                reg,
		startedAt:          time.Now(),
	}
}

// GetPrayerTimes serves the main endpoint.
// GET /vakitler/:place
func (h *PrayerTimesHandler) GetPrayerTimes(c *gin.Context) {
	place := c.Param("place")

	result, err := h.prayerTimesUseCase.GetPrayerTimes(c.Request.Context(), place)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if result.Ambiguity != nil {
		amb := result.Ambiguity
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"type":             "city_search",
			"city":             amb.City,
			"districts":        amb.Districts,
			"default_district": amb.DefaultDistrict,
			"message":          "city matched; pick one of its districts",
			"suggestion":       "/vakitler/" + normalize.URLSafe(amb.City+" "+amb.DefaultDistrict),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"source":  result.Source,
		"place":   place,
		"data":    result.Data,
	})
}

func (h *PrayerTimesHandler) renderError(c *gin.Context, err error) {
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":     false,
			"error":       "district or city not found",
			"searchedFor": notFound.Query,
			"suggestion":  "check the place name; Turkish characters are supported",
		})
		return
	}

	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		status := http.StatusBadGateway
		switch {
		case upstream.Timeout:
			status = http.StatusRequestTimeout
		case upstream.RateLimited, upstream.StatusCode == 0 && upstream.Err != nil:
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   "upstream prayer-times API failed",
			"details": upstream.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal error",
		"details": err.Error(),
	})
}

// ListDistricts returns the whole catalog with normalized names.
// GET /ilceler
func (h *PrayerTimesHandler) ListDistricts(c *gin.Context) {
	type districtEntry struct {
		DistrictName   string `json:"district_name"`
		CityName       string `json:"city_name"`
		NormalizedName string `json:"normalized_name"`
	}

	all := h.reg.All()
	entries := make([]districtEntry, 0, len(all))
	for i := range all {
		entries = append(entries, districtEntry{
			DistrictName:   all[i].DistrictName,
			CityName:       all[i].CityName,
			NormalizedName: normalize.Normalize(all[i].DistrictName),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(entries),
		"data":    entries,
	})
}

// SearchDistricts finds districts by substring, capped at 50 results.
// GET /ara/:term
func (h *PrayerTimesHandler) SearchDistricts(c *gin.Context) {
	term := c.Param("term")

	found := h.reg.Search(term, searchResultLimit)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"searchTerm": term,
		"count":      len(found),
		"data":       found,
	})
}

// Health reports liveness.
// GET /health
func (h *PrayerTimesHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"status":        "healthy",
		"timestamp":     time.Now().Format(time.RFC3339),
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
		"districtCount": h.reg.Count(),
	})
}

// Home lists the available endpoints.
// GET /
func (h *PrayerTimesHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":       "prayer times API",
		"districtCount": h.reg.Count(),
		"endpoints":     []string{"/vakitler/:place", "/ara/:term", "/ilceler", "/health"},
	})
}
