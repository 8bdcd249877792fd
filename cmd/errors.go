package cmd

import (
	"errors"

	"github.com/marcus/ordr/internal/db"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
	"github.com/marcus/ordr/internal/ordering"
	"github.com/marcus/ordr/internal/output"
)

// errorCode maps an error to its structured JSON error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidOrder):
		return output.ErrCodeInvalidInput
	case errors.Is(err, db.ErrOrderExists):
		return output.ErrCodeConflict
	case errors.Is(err, db.ErrOrderNotFound):
		return output.ErrCodeNotFound
	case errors.Is(err, features.ErrUnknownFeature):
		return output.ErrCodeUnknownFeature
	case errors.Is(err, ordering.ErrNotify):
		return output.ErrCodeNotifyError
	default:
		return output.ErrCodeDatabaseError
	}
}
