package domain

import "time"

// NotificationType classifies an emitted notification
type NotificationType string

const (
	NotificationDelayDetected       NotificationType = "DELAY_DETECTED"
	NotificationFamilyMemberDelayed NotificationType = "FAMILY_MEMBER_DELAYED"
	NotificationJourneyReminder     NotificationType = "JOURNEY_REMINDER"
)

// Notification is the record handed to the external notification sink.
// This service only constructs and emits these; actual delivery
// (push/SMS/email) happens downstream.
type Notification struct {
	ID               string           `json:"id"`
	Type             NotificationType `json:"type"`
	Message          string           `json:"message"`
	RecipientID      string           `json:"recipient_id"`
	RelatedReportID  *string          `json:"related_report_id,omitempty"`
	RelatedJourneyID *string          `json:"related_journey_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
