package provider

import "go.uber.org/zap"

// Toaster surfaces the outcome of booking actions to the user. Implementations
// must be safe for concurrent use; the store may toast from multiple
// goroutines.
type Toaster interface {
	Success(msg string)
	Error(msg string)
}

// NopToaster discards every message.
type NopToaster struct{}

func (NopToaster) Success(string) {}
func (NopToaster) Error(string)   {}

// LogToaster writes toasts to a logger, for headless deployments.
type LogToaster struct {
	Logger *zap.Logger
}

func (t LogToaster) Success(msg string) {
	t.Logger.Info("toast", zap.String("level", "success"), zap.String("message", msg))
}

func (t LogToaster) Error(msg string) {
	t.Logger.Warn("toast", zap.String("level", "error"), zap.String("message", msg))
}
