package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

const defaultNotificationBuffer = 50

// NotificationFeed is a bounded queue of user-facing messages. Pushing never
// blocks; when full the oldest message is dropped.
type NotificationFeed struct {
	mu       sync.Mutex
	items    []models.Notification
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

// NewNotificationFeed constructs a feed holding at most capacity messages.
func NewNotificationFeed(capacity int, logger *zap.Logger) *NotificationFeed {
	if capacity <= 0 {
		capacity = defaultNotificationBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationFeed{capacity: capacity, logger: logger, now: time.Now}
}

func (f *NotificationFeed) Info(operation, message string) {
	f.push(models.NotificationInfo, operation, message)
}

func (f *NotificationFeed) Success(operation, message string) {
	f.push(models.NotificationSuccess, operation, message)
}

func (f *NotificationFeed) Warning(operation, message string) {
	f.push(models.NotificationWarning, operation, message)
}

func (f *NotificationFeed) Error(operation, message string) {
	f.push(models.NotificationError, operation, message)
}

func (f *NotificationFeed) push(level models.NotificationLevel, operation, message string) {
	if f == nil {
		return
	}
	n := models.Notification{Level: level, Message: message, Operation: operation, At: f.now().UTC()}

	f.mu.Lock()
	if len(f.items) >= f.capacity {
		f.items = append(f.items[:0:0], f.items[len(f.items)-f.capacity+1:]...)
	}
	f.items = append(f.items, n)
	f.mu.Unlock()

	fields := []zap.Field{zap.String("operation", operation), zap.String("message", message)}
	switch level {
	case models.NotificationError:
		f.logger.Error("notification", fields...)
	case models.NotificationWarning:
		f.logger.Warn("notification", fields...)
	default:
		f.logger.Info("notification", fields...)
	}
}

// Drain returns pending messages oldest first and empties the feed.
func (f *NotificationFeed) Drain() []models.Notification {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

// Len reports the number of pending messages.
func (f *NotificationFeed) Len() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
