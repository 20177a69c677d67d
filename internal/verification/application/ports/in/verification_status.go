package in

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// GetVerificationStatusUseCase is the pure read of a report's
// verification state from the requesting rider's point of view.
// Presence is recomputed fresh on every call.
type GetVerificationStatusUseCase interface {
	Execute(ctx context.Context, reportID, requestingRiderID string) (*domain.VerificationStatus, error)
}
