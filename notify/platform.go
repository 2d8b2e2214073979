package notify

import (
	"go.uber.org/zap"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
)

// PlatformNotifier mirrors live notifications to a host-level surface, such
// as a desktop notification center or a push relay. Implementations must
// tolerate concurrent calls.
type PlatformNotifier interface {
	Notify(n api.Notification)
}

// LogNotifier writes notifications to a logger, for headless deployments.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(n api.Notification) {
	l.Logger.Info("notification",
		zap.Int64("id", n.ID),
		zap.String("type", n.Type),
		zap.String("title", n.Title),
	)
}
