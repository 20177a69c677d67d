package domain

import "math"

// MinConfirmations is the floor of the crowd rule: no report verifies
// on fewer confirmations regardless of how small the vehicle crowd is.
// With presence <= 2 the crowd path is mathematically unreachable and
// only an admin-tier vote can verify — that is intended.
const MinConfirmations = 3

// RequiredConfirmations returns how many confirming votes the crowd
// rule needs for the given presence count.
func RequiredConfirmations(presence int) int {
	half := int(math.Ceil(0.5 * float64(presence)))
	if half < MinConfirmations {
		return MinConfirmations
	}
	return half
}

// CrowdQuorumMet evaluates the crowd rule: at least the required number
// of confirmations AND at least half of the riders currently aboard.
func CrowdQuorumMet(confirmations, presence int) bool {
	if confirmations < RequiredConfirmations(presence) {
		return false
	}
	return VerificationPercentage(confirmations, presence) >= 50.0
}

// VerificationPercentage is confirmations over presence, in percent.
// Zero presence yields 0, never a division error.
func VerificationPercentage(confirmations, presence int) float64 {
	if presence <= 0 {
		return 0
	}
	return float64(confirmations) / float64(presence) * 100.0
}
