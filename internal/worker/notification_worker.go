package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/service"
)

// StartNotificationWorker subscribes the notification sink to ticket events.
// Delivery runs synchronously on the publishing goroutine.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	subscribed := notificationService.RegisterHandlers()
	types := make([]string, 0, len(subscribed))
	for _, t := range subscribed {
		types = append(types, string(t))
	}
	logger.Info("notification worker started",
		zap.Strings("event_types", types),
		zap.String("channel", notificationService.Channel()),
	)
}
