package repository

import "VakitApp/internal/domain/model"

// FailureLogger records definitive batch-fetch failures, one line per
// district and reason. Implementations are append-only.
type FailureLogger interface {
	Record(runID string, district *model.District, reason string) error
}
