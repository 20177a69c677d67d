package domain

import (
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
)

// ReportCategory classifies an incident report
type ReportCategory string

const (
	CategoryTrafficJam       ReportCategory = "TRAFFIC_JAM"
	CategoryVehicleBreakdown ReportCategory = "VEHICLE_BREAKDOWN"
	CategoryMedicalHelp      ReportCategory = "MEDICAL_HELP"
	CategoryOther            ReportCategory = "OTHER"
)

// DelayRelevant reports whether a verified report in this category
// triggers the delay cascade.
func (c ReportCategory) DelayRelevant() bool {
	return c == CategoryVehicleBreakdown || c == CategoryTrafficJam
}

// BaseImpact is the assumed additional delay in minutes an open incident
// of this category contributes before confidence scaling.
func (c ReportCategory) BaseImpact() float64 {
	switch c {
	case CategoryTrafficJam:
		return 15.0
	case CategoryVehicleBreakdown:
		return 45.0
	case CategoryMedicalHelp:
		return 20.0
	default:
		return 7.5
	}
}

// Report is a rider-submitted incident. is_verified is monotonic: it
// transitions false→true exactly once and never reverts.
type Report struct {
	ID              string         `json:"id"`
	AuthorID        string         `json:"author_id"`
	VehicleTripID   string         `json:"vehicle_trip_id"`
	Category        ReportCategory `json:"category"`
	Description     string         `json:"description"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Confidence      int            `json:"confidence"`
	IsVerified      bool           `json:"is_verified"`
	VerifiedByAdmin bool           `json:"verified_by_admin"`
	VerifiedAt      *time.Time     `json:"verified_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// InitialConfidence: reports filed by operational staff start trusted,
// passenger reports start at half confidence until verified.
func InitialConfidence(role rider.Role) int {
	if role.AdminTier() {
		return 100
	}
	return 50
}

// Open reports whether the incident is still unresolved and recent
// enough (per window) to affect delay estimation.
func (r *Report) Open(now time.Time, window time.Duration) bool {
	return r.ResolvedAt == nil && now.Sub(r.CreatedAt) < window
}
