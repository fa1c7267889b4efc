package usecase

import (
	"context"
	"time"

	"rutopia/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateAlertInput represents the input for posting a new alert
type CreateAlertInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        string     `json:"kind,omitempty"`     // Defaults to traffic
	Severity    string     `json:"severity,omitempty"` // Defaults to medium
	Coordinates []float64  `json:"coordinates"`        // [longitude, latitude]
	Address     string     `json:"address,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"` // Defaults to creation + TTL
}

// UpdateAlertInput represents a partial update; nil fields are left untouched
type UpdateAlertInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Kind        *string    `json:"kind,omitempty"`
	Severity    *string    `json:"severity,omitempty"`
	Coordinates *[]float64 `json:"coordinates,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// AppendReportInput represents a follow-up report on an alert
type AppendReportInput struct {
	Comment string `json:"comment"`
	Kind    string `json:"kind,omitempty"` // Defaults to confirmation
}

// ListAlertsInput holds the filters and paging of a listing
type ListAlertsInput struct {
	Kinds        []string
	Severities   []string
	Active       *bool            // Defaults to true
	Center       *entity.GeoPoint // Restricts to a radius around this point, nearest first
	RadiusMeters *float64         // Defaults to the configured list radius
	Page         int              // 1-indexed; defaults to 1
	Limit        int              // Defaults to the configured page size
}

// NearbyAlertsInput holds a proximity search around a point
type NearbyAlertsInput struct {
	Center       *entity.GeoPoint
	RadiusMeters *float64 // Defaults to the configured nearby radius
}

// Pagination summarises one page of a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// AlertPage is one page of alerts plus its pagination summary
type AlertPage struct {
	Items      []*entity.Alert
	Pagination Pagination
}

// AlertLifecycleUsecase covers the write side: create, update, soft delete and reports
type AlertLifecycleUsecase interface {
	CreateAlert(ctx context.Context, creatorID string, input *CreateAlertInput) (*entity.Alert, error)
	UpdateAlert(ctx context.Context, alertID uuid.UUID, requesterID string, input *UpdateAlertInput) (*entity.Alert, error)
	DeactivateAlert(ctx context.Context, alertID uuid.UUID, requesterID string) (*entity.Alert, error)
	AppendReport(ctx context.Context, alertID uuid.UUID, userID string, input *AppendReportInput) (*entity.Alert, error)
}

// AlertQueryUsecase covers the read side; every read sees expiry applied
type AlertQueryUsecase interface {
	GetAlert(ctx context.Context, alertID uuid.UUID) (*entity.Alert, error)
	ListAlerts(ctx context.Context, input *ListAlertsInput) (*AlertPage, error)
	NearbyAlerts(ctx context.Context, input *NearbyAlertsInput) ([]*entity.Alert, error)
	Statistics(ctx context.Context) (*entity.AlertStatistics, error)
}

// ExpirySweeper flips overdue active alerts to inactive
type ExpirySweeper interface {
	// Sweep runs one pass and returns how many alerts changed
	Sweep(ctx context.Context) (int64, error)
}
