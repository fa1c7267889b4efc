// Package delivery groups the inbound adapters (HTTP API, scheduled jobs) started by cmd/rutopia.
package delivery

import "context"

// Delivery is a long-running inbound adapter. Serve blocks until the adapter stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
