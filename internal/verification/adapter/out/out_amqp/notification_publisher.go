package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/mq"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// NotificationPublisher hands notifications to the broker. The routing
// key mirrors the queue names from the topology, one per notification
// type, so delivery workers can bind selectively.
type NotificationPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewNotificationPublisher(broker *mq.RabbitMQ, log *logger.Logger) *NotificationPublisher {
	return &NotificationPublisher{
		mq:  broker,
		log: log,
	}
}

func routingKey(t domain.NotificationType) string {
	switch t {
	case domain.NotificationDelayDetected:
		return "notification.delay_detected"
	case domain.NotificationFamilyMemberDelayed:
		return "notification.family_member_delayed"
	case domain.NotificationJourneyReminder:
		return "notification.journey_reminder"
	default:
		return "notification.unknown"
	}
}

func (p *NotificationPublisher) Deliver(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := routingKey(n.Type)
	if err := p.mq.Publish(ctx, mq.NotificationExchange, key, body); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	p.log.Debug(logger.Entry{
		Action:  "notification_published",
		Message: key,
		Additional: map[string]any{
			"notification_id": n.ID,
			"recipient_id":    n.RecipientID,
		},
	})
	return nil
}
