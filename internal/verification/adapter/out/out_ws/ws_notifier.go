package out_ws

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/ws"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// WSNotifier pushes notifications to the rider's open WebSocket
// connections. Best effort: a rider without an open connection is not
// an error, the broker copy still reaches them through a delivery
// worker.
type WSNotifier struct {
	hub *ws.Hub
	log *logger.Logger
}

func NewWSNotifier(hub *ws.Hub, log *logger.Logger) *WSNotifier {
	return &WSNotifier{
		hub: hub,
		log: log,
	}
}

func (w *WSNotifier) Deliver(_ context.Context, n domain.Notification) error {
	if !w.hub.IsRiderConnected(n.RecipientID) {
		return nil
	}
	if err := w.hub.SendToRiderJSON(n.RecipientID, n); err != nil {
		w.log.Error(logger.Entry{
			Action:  "ws_notify_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"notification_id": n.ID,
				"recipient_id":    n.RecipientID,
			},
		})
		return err
	}
	return nil
}
