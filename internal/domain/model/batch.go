package model

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month of one year.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Label renders the month as MM/YYYY for logs and reports.
func (ym YearMonth) Label() string {
	return fmt.Sprintf("%02d/%d", ym.Month, ym.Year)
}

// MonthWindow returns n consecutive months starting with the month of now.
func MonthWindow(now time.Time, n int) []YearMonth {
	window := make([]YearMonth, 0, n)
	for i := 0; i < n; i++ {
		t := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, now.Location())
		window = append(window, YearMonth{Year: t.Year(), Month: t.Month()})
	}
	return window
}

// MonthReport aggregates one month of a batch run. Skipped counts archive
// files that already existed and were not re-fetched.
type MonthReport struct {
	Month     YearMonth
	Succeeded int
	Failed    int
	Skipped   int
}

// BatchReport summarizes a whole batch run across the month window.
type BatchReport struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Months    []MonthReport
	Succeeded int
	Failed    int
	Skipped   int
}

// SuccessRate is the fraction of processed pairs that ended in an archive
// file being present, skips included.
func (r *BatchReport) SuccessRate() float64 {
	total := r.Succeeded + r.Failed + r.Skipped
	if total == 0 {
		return 0
	}
	return float64(r.Succeeded+r.Skipped) / float64(total)
}
