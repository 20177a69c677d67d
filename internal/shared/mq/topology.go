package mq

import (
	"fmt"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
)

// NotificationExchange is the topic exchange every emitted notification
// goes through. Downstream delivery workers (push/SMS/email) bind to it;
// this service only publishes.
const NotificationExchange = "notification_topic"

// SetupTopology declares the notification exchange, queues and bindings
func SetupTopology(mq *RabbitMQ, log *logger.Logger) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	if err := ch.ExchangeDeclare(
		NotificationExchange, // name
		"topic",              // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // args
	); err != nil {
		return fmt.Errorf("declare %s: %w", NotificationExchange, err)
	}

	notificationQueues := []string{
		"notification.delay_detected",
		"notification.family_member_delayed",
		"notification.journey_reminder",
	}
	for _, q := range notificationQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		routingKey := q // queue name doubles as routing key
		if err := ch.QueueBind(q, routingKey, NotificationExchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	log.Info(logger.Entry{
		Action:  "topology_setup_complete",
		Message: "notification exchange and queues created",
	})

	return nil
}
