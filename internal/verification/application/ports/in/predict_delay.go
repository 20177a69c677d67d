package in

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// PredictDelayInput — trip plus optional live position
type PredictDelayInput struct {
	TripID    string   `json:"trip_id"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// PredictDelayUseCase combines live position, historical pattern and
// open incidents into a delay estimate. Missing signals shift the
// weight set; they never produce an error.
type PredictDelayUseCase interface {
	Execute(ctx context.Context, input PredictDelayInput) (*domain.DelayEstimate, error)
}
