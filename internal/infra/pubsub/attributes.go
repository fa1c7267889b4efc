package pubsub

import "rutopia/internal/domain/service"

// eventAttributes are the message attributes consumers can filter on without decoding the payload.
func eventAttributes(event *service.AlertEvent) map[string]string {
	attributes := map[string]string{
		"event_type": string(event.Type),
		"alert_id":   event.AlertID,
		"kind":       event.Kind,
		"severity":   event.Severity,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
