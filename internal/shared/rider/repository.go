package rider

import (
	"context"
	"errors"
)

var ErrRiderNotFound = errors.New("rider not found")

// Repository is the persistence contract for rider accounts.
// AwardVerifiedReport is the reputation ledger: it must run inside the
// same transaction as the report transition that triggered it.
type Repository interface {
	FindByID(ctx context.Context, riderID string) (*Rider, error)
	FindByEmail(ctx context.Context, email string) (*Rider, error)
	FindByIDs(ctx context.Context, riderIDs []string) ([]*Rider, error)

	// AwardVerifiedReport applies the one-time reward for a verified
	// report: +points reputation, verified count +1, badge recomputed
	// from the new count. Returns the new verified-report count.
	AwardVerifiedReport(ctx context.Context, riderID string, points int) (int, error)
}
