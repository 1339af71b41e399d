package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-gateway/internal/service"
)

// StartNotificationWorker subscribes the notification service to the
// order and contact events. Delivery is synchronous and in-process;
// there is no queue to drain on shutdown.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker subscribed")
}
