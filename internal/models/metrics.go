package models

import "time"

// ConsoleMetrics is a point-in-time summary of console instrumentation.
type ConsoleMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	RemoteCalls              uint64    `json:"remote_calls"`
	RemoteFailures           uint64    `json:"remote_failures"`
	OptimisticRollbacks      uint64    `json:"optimistic_rollbacks"`
	MountedViews             int       `json:"mounted_views"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
