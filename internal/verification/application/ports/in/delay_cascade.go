package in

import "context"

// DelayCascadeResult reports what the cascade emitted. Repeated
// triggers for the same report may re-notify the same riders; the
// cascade does not deduplicate across invocations.
type DelayCascadeResult struct {
	DelayDetected           bool   `json:"delay_detected"`
	ReportID                string `json:"report_id,omitempty"`
	AlternativeRoutesSent   int    `json:"alternative_routes_sent"`
	FamilyNotificationsSent int    `json:"family_notifications_sent"`
}

// TriggerDelayCascadeUseCase recomputes presence for the trip and fans
// out delay notifications to affected riders and their contacts.
type TriggerDelayCascadeUseCase interface {
	Execute(ctx context.Context, tripID string) (*DelayCascadeResult, error)
}
