package worker

import (
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker subscribes the in-process event consumers. A nil
// relay leaves events local to this process.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, relay *events.RedisRelay) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if relay != nil {
		relay.Register(dispatcher)
	}
}
