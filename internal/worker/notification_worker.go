package worker

import (
	"github.com/devicecare/repair-booking/internal/events"
	"github.com/devicecare/repair-booking/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a
// forwarder is configured, relays every booking event to the broker.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, forwarder *events.AMQPForwarder) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if forwarder != nil && dispatcher != nil {
		forwarder.Register(dispatcher)
	}
}
