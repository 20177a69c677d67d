package rider

import "time"

// Role is the closed set of rider roles. Comparisons go through the
// predicates below, never through raw string matching.
type Role string

const (
	RolePassenger  Role = "PASSENGER"
	RoleDriver     Role = "DRIVER"
	RoleDispatcher Role = "DISPATCHER"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps a stored string onto the closed role set; anything
// unknown degrades to PASSENGER, the least-privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleDriver, RoleDispatcher, RoleAdmin:
		return Role(s)
	default:
		return RolePassenger
	}
}

// AdminTier reports whether a single confirming vote from this role is
// authoritative on its own (driver, dispatcher or admin).
func (r Role) AdminTier() bool {
	return r == RoleDriver || r == RoleDispatcher || r == RoleAdmin
}

// Badge thresholds: the highest one met wins. Zero verified reports
// means no badge.
const (
	BadgeNew         = "New Reporter"
	BadgeActive      = "Active Reporter"
	BadgeExperienced = "Experienced Reporter"
	BadgeExpert      = "Expert Reporter"
)

// BadgeForCount derives the badge from a rider's verified-report count
func BadgeForCount(verifiedReports int) string {
	switch {
	case verifiedReports >= 50:
		return BadgeExpert
	case verifiedReports >= 20:
		return BadgeExperienced
	case verifiedReports >= 5:
		return BadgeActive
	case verifiedReports >= 1:
		return BadgeNew
	default:
		return ""
	}
}

// Rider is the account model shared across the service
type Rider struct {
	ID                   string
	Email                string
	Name                 string
	HashedPassword       string
	Role                 Role
	Status               string // ACTIVE | INACTIVE | BANNED
	ReputationPoints     int
	VerifiedReportsCount int
	Badge                string
	FamilyContacts       *string // serialized contact list, see contacts.go
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsActive reports whether the account may act
func (r *Rider) IsActive() bool {
	return r.Status == "ACTIVE"
}
