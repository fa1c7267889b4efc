package service

import (
	"context"
	"time"
)

// AlertEventType names a change in an alert's lifecycle.
type AlertEventType string

const (
	AlertEventCreated     AlertEventType = "alert.created"
	AlertEventUpdated     AlertEventType = "alert.updated"
	AlertEventDeactivated AlertEventType = "alert.deactivated"
	AlertEventReported    AlertEventType = "alert.reported"
)

// AlertEvent describes one alert lifecycle change for downstream consumers
type AlertEvent struct {
	RequestID  string         `json:"request_id,omitempty"` // For distributed tracing
	Type       AlertEventType `json:"type"`
	AlertID    string         `json:"alert_id"`
	ActorID    string         `json:"actor_id"`
	Kind       string         `json:"kind"`
	Severity   string         `json:"severity"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	ReportKind string         `json:"report_kind,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAlertEvent publishes an alert lifecycle event
	PublishAlertEvent(ctx context.Context, event *AlertEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
