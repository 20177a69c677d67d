package out

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// NotificationSink receives constructed notifications. Delivery to the
// rider (push/SMS/email) is a downstream concern; a failed handoff only
// reduces the reported sent count, it never aborts the cascade.
type NotificationSink interface {
	Deliver(ctx context.Context, n domain.Notification) error
}
