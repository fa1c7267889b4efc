// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"
	"time"

	"rutopia/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for alert persistence.
var (
	// ErrAlertNotFound is returned when an alert is not found.
	ErrAlertNotFound = errors.New("alert not found")
)

// AlertSort selects the ordering of FindAlerts results.
type AlertSort int

const (
	// SortNewest orders by creation time, newest first.
	SortNewest AlertSort = iota
	// SortNearest orders by distance to the filter center, nearest first, then newest first.
	SortNearest
)

// GeoRadius restricts results to points within RadiusMeters of Center.
type GeoRadius struct {
	Center       entity.GeoPoint
	RadiusMeters float64
}

// AlertFilter narrows FindAlerts and CountAlerts.
type AlertFilter struct {
	Kinds      []entity.AlertKind // OR-matched; empty means any kind.
	Severities []entity.Severity  // OR-matched; empty means any severity.
	Active     *bool              // Effective activity at Now; nil means both.
	Near       *GeoRadius         // Optional proximity restriction.
	Now        time.Time          // Reference instant for effective activity.
}

// AlertQuery bundles a filter with ordering and paging.
type AlertQuery struct {
	Filter AlertFilter
	Sort   AlertSort
	Limit  int
	Offset int
}

// AlertPatch carries the mutable fields of an alert. Nil fields are left untouched.
// Active, CreatorID, CreatedAt and Reports are not patchable.
type AlertPatch struct {
	Title       *string
	Description *string
	Kind        *entity.AlertKind
	Severity    *entity.Severity
	Location    *entity.GeoPoint
	Address     *string
	ExpiresAt   *time.Time
	Tags        *[]string
}

// IsEmpty reports whether the patch touches no field.
func (p *AlertPatch) IsEmpty() bool {
	return p == nil || len(p.touched()) == 0
}

// Apply copies the set fields onto alert and returns the JSON names of the touched fields.
func (p *AlertPatch) Apply(alert *entity.Alert) []string {
	if p == nil {
		return nil
	}

	if p.Title != nil {
		alert.Title = *p.Title
	}
	if p.Description != nil {
		alert.Description = *p.Description
	}
	if p.Kind != nil {
		alert.Kind = *p.Kind
	}
	if p.Severity != nil {
		alert.Severity = *p.Severity
	}
	if p.Location != nil {
		alert.Location = *p.Location
	}
	if p.Address != nil {
		alert.Address = *p.Address
	}
	if p.ExpiresAt != nil {
		alert.ExpiresAt = *p.ExpiresAt
	}
	if p.Tags != nil {
		alert.Tags = append([]string(nil), (*p.Tags)...)
	}

	return p.touched()
}

func (p *AlertPatch) touched() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Kind != nil {
		fields = append(fields, "kind")
	}
	if p.Severity != nil {
		fields = append(fields, "severity")
	}
	if p.Location != nil {
		fields = append(fields, "location")
	}
	if p.Address != nil {
		fields = append(fields, "address")
	}
	if p.ExpiresAt != nil {
		fields = append(fields, "expires_at")
	}
	if p.Tags != nil {
		fields = append(fields, "tags")
	}

	return fields
}

// AlertRepository defines the interface for alert-related database operations.
// It holds no business rules: ownership and expiry policy live in the use cases.
type AlertRepository interface {
	// CreateAlert validates and persists a new alert, assigning its ID when unset.
	CreateAlert(ctx context.Context, alert *entity.Alert) error

	// FindAlertByID retrieves an alert by its unique ID.
	FindAlertByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error)

	// UpdateAlert applies a validated patch and returns the updated alert.
	UpdateAlert(ctx context.Context, id uuid.UUID, patch *AlertPatch) (*entity.Alert, error)

	// FindAlerts returns one page of matching alerts and the total number of matches.
	FindAlerts(ctx context.Context, query AlertQuery) ([]*entity.Alert, int64, error)

	// CountAlerts counts alerts matching the filter.
	CountAlerts(ctx context.Context, filter AlertFilter) (int64, error)

	// DeactivateAlert sets active to false. Deactivating an inactive alert is a no-op.
	DeactivateAlert(ctx context.Context, id uuid.UUID) (*entity.Alert, error)

	// AppendReport atomically appends a report to the alert's report list. The stored
	// CreatedAt is strictly greater than that of every earlier report on the alert.
	AppendReport(ctx context.Context, id uuid.UUID, report *entity.Report) (*entity.Alert, error)

	// DeactivateExpired flips every active alert whose expiry is before now to inactive
	// and returns the number of alerts changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// CountActiveByKindAndSeverity groups the alerts active at now by kind and severity.
	CountActiveByKindAndSeverity(ctx context.Context, now time.Time) ([]entity.AlertBucket, error)
}
