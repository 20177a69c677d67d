package domain

// DelayComponents breaks a prediction down into its signals
type DelayComponents struct {
	CurrentDelay      *float64 `json:"current_delay,omitempty"` // nil when no live position was supplied
	HistoricalAverage float64  `json:"historical_average"`
	IncidentImpact    float64  `json:"incident_impact"`
	HistoricalSamples int      `json:"historical_samples"`
}

// DelayEstimate is the output of the delay estimator. Confidence is
// always within [0, 1] regardless of which signals were available.
type DelayEstimate struct {
	PredictedDelayMinutes float64         `json:"predicted_delay_minutes"`
	Confidence            float64         `json:"confidence"`
	Components            DelayComponents `json:"components"`
	Method                string          `json:"prediction_method"`
}

// VerificationStatus is the read model for a report's verification
// state. Presence is recomputed on every call, so required_confirmations
// may legitimately differ between two reads moments apart.
type VerificationStatus struct {
	ReportID               string  `json:"report_id"`
	IsVerified             bool    `json:"is_verified"`
	VerifiedByAdmin        bool    `json:"verified_by_admin"`
	ConfirmationsCount     int     `json:"confirmations_count"`
	DenialsCount           int     `json:"denials_count"`
	TotalRidersOnVehicle   int     `json:"total_riders_on_vehicle"`
	RequiredConfirmations  int     `json:"required_confirmations"`
	VerificationPercentage float64 `json:"verification_percentage"`
	CanVote                bool    `json:"can_vote"`
	OwnVote                *Vote   `json:"own_vote,omitempty"`
}
