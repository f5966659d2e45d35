package models

import "time"

// NotificationLevel mirrors the toast levels shown by the console.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a non-blocking, user-facing message.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	Operation string            `json:"operation,omitempty"`
	At        time.Time         `json:"at"`
}
