// Package aladhan implements the PrayerTimesProvider against the Aladhan
// astronomical-calculation API. The service never computes prayer times
// itself; this client is its only source of fresh data.
package aladhan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/paulmach/orb"

	"VakitApp/internal/domain/model"
)

const (
	defaultBaseURL = "https://api.aladhan.com"
	userAgent      = "VakitApp/1.0"
	requestTimeout = 10 * time.Second
)

// Client calls the live Aladhan API with a fixed calculation method and a
// bounded request timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the configured base URL; ALADHAN_BASE_URL
// overrides the production endpoint.
func NewClient() *Client {
	baseURL := os.Getenv("ALADHAN_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return NewClientWithBaseURL(baseURL)
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Timings fetches today's schedule for the given coordinates and validates
// that all display timings are present.
func (c *Client) Timings(ctx context.Context, loc orb.Point) (*model.DayRecord, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", loc.Lat()))
	params.Set("longitude", fmt.Sprintf("%f", loc.Lon()))
	params.Set("method", fmt.Sprintf("%d", model.CalculationMethodDiyanet))
	params.Set("tune", "0,0,0,0,0,0,0")

	payload, err := c.get(ctx, fmt.Sprintf("%s/v1/timings?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	if payload.Day == nil {
		return nil, &model.UpstreamError{Reason: "expected a single-day payload"}
	}
	if !payload.Day.HasTimings(model.DisplayTimings) {
		return nil, &model.UpstreamError{Reason: "day record is missing required timing fields"}
	}
	return payload.Day, nil
}

// Calendar fetches the whole month for the given coordinates and validates
// that the day sequence is non-empty with all required timings on day 1.
func (c *Client) Calendar(ctx context.Context, loc orb.Point, year int, month time.Month) ([]model.DayRecord, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", loc.Lat()))
	params.Set("longitude", fmt.Sprintf("%f", loc.Lon()))
	params.Set("method", fmt.Sprintf("%d", model.CalculationMethodDiyanet))

	payload, err := c.get(ctx, fmt.Sprintf("%s/v1/calendar/%d/%02d?%s", c.baseURL, year, int(month), params.Encode()))
	if err != nil {
		return nil, err
	}

	if payload.Days == nil {
		return nil, &model.UpstreamError{Reason: "expected a calendar payload"}
	}
	if len(payload.Days) == 0 {
		return nil, &model.UpstreamError{Reason: "calendar payload is empty"}
	}
	if !payload.Days[0].HasTimings(model.RequiredTimings) {
		return nil, &model.UpstreamError{Reason: "first day record is missing required timing fields"}
	}
	return payload.Days, nil
}

// payload is the tagged decoding of the API's data field: either one day
// record (timings endpoint) or a day sequence (calendar endpoint). The shape
// is decided and validated here at the boundary, never downstream.
type payload struct {
	Day  *model.DayRecord
	Days []model.DayRecord
}

type apiResponse struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, requestURL string) (*payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &model.UpstreamError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, &model.UpstreamError{Timeout: true, Reason: "request timed out", Err: err}
		}
		return nil, &model.UpstreamError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, RateLimited: true, Reason: "rate limit exceeded"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Reason: "unexpected status"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UpstreamError{Reason: "failed to read response body", Err: err}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &model.UpstreamError{Reason: "response is not valid JSON", Err: err}
	}
	if len(apiResp.Data) == 0 {
		return nil, &model.UpstreamError{Reason: "response has no data field"}
	}

	return decodePayload(apiResp.Data)
}

func decodePayload(data json.RawMessage) (*payload, error) {
	switch firstByte(data) {
	case '{':
		var day model.DayRecord
		if err := json.Unmarshal(data, &day); err != nil {
			return nil, &model.UpstreamError{Reason: "invalid single-day payload", Err: err}
		}
		return &payload{Day: &day}, nil
	case '[':
		var days []model.DayRecord
		if err := json.Unmarshal(data, &days); err != nil {
			return nil, &model.UpstreamError{Reason: "invalid calendar payload", Err: err}
		}
		return &payload{Days: days}, nil
	default:
		return nil, &model.UpstreamError{Reason: "data field is neither an object nor an array"}
	}
}

func firstByte(data json.RawMessage) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
