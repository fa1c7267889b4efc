// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// AlertKind classifies what an alert is about.
type AlertKind string

const (
	AlertKindTraffic  AlertKind = "traffic"
	AlertKindNatural  AlertKind = "natural"
	AlertKindSecurity AlertKind = "security"
)

// AlertKinds lists every kind in display order.
var AlertKinds = []AlertKind{AlertKindTraffic, AlertKindNatural, AlertKindSecurity}

// Severity ranks how serious an alert is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists every severity in display order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// ReportKind classifies a follow-up report on an alert.
type ReportKind string

const (
	ReportKindConfirmation ReportKind = "confirmation"
	ReportKindUpdate       ReportKind = "update"
	ReportKindResolution   ReportKind = "resolution"
)

// DefaultAlertTTL is how long an alert stays active when no expiry is supplied.
const DefaultAlertTTL = 24 * time.Hour

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"` // Degrees east, [-180, 180].
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`    // Degrees north, [-90, 90].
}

// Point converts the coordinate into an orb point ([lon, lat]).
func (p GeoPoint) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// GeoPointFromPair builds a point from a [lon, lat] pair.
func GeoPointFromPair(lon, lat float64) GeoPoint {
	return GeoPoint{Longitude: lon, Latitude: lat}
}

// Alert is a geotagged hazard or event reported by a user.
type Alert struct {
	ID          uuid.UUID `json:"id"`                                                         // The Global Unique Identifier (GUID) for the alert.
	Title       string    `json:"title" validate:"required,max=100"`                          // Short headline.
	Description string    `json:"description" validate:"required,max=500"`                    // Free text details.
	Kind        AlertKind `json:"kind" validate:"required,oneof=traffic natural security"`    // What the alert is about.
	Severity    Severity  `json:"severity" validate:"required,oneof=low medium high"`         // How serious it is.
	Location    GeoPoint  `json:"location"`                                                   // Where it happens.
	Address     string    `json:"address" validate:"max=200"`                                 // Optional human readable address.
	Active      bool      `json:"active"`                                                     // False once soft-deleted or expired; never flips back.
	CreatorID   string    `json:"creator_id" validate:"required"`                             // Opaque ID of the user who posted it.
	Reports     []Report  `json:"reports"`                                                    // Append-only follow-up reports, oldest first.
	Tags        []string  `json:"tags" validate:"omitempty,dive,required,max=50"`             // Free-form labels.
	CreatedAt   time.Time `json:"created_at"`                                                 // Timestamp of when the alert was created.
	UpdatedAt   time.Time `json:"updated_at"`                                                 // Timestamp of the last modification.
	ExpiresAt   time.Time `json:"expires_at"`                                                 // After this instant the alert is no longer active.
}

// Report is a user-submitted note attached to exactly one alert.
type Report struct {
	UserID    string     `json:"user_id" validate:"required"`                                   // Opaque ID of the reporting user.
	Comment   string     `json:"comment" validate:"required,max=500"`                           // Trimmed comment text.
	Kind      ReportKind `json:"kind" validate:"required,oneof=confirmation update resolution"` // Confirmation, update or resolution.
	CreatedAt time.Time  `json:"created_at"`                                                    // Assigned by the store at append time.
}

// IsExpired reports whether the alert's expiry has passed at now.
func (a *Alert) IsExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// IsEffectivelyActive reports whether the alert should be treated as active at now.
func (a *Alert) IsEffectivelyActive(now time.Time) bool {
	return a.Active && !a.IsExpired(now)
}

// RemainingMinutes returns the whole minutes left before expiry, never negative.
func (a *Alert) RemainingMinutes(now time.Time) int {
	remaining := a.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	return int(remaining / time.Minute)
}

// Clone returns a deep copy so callers can mutate it freely.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a
	if a.Reports != nil {
		cloned.Reports = make([]Report, len(a.Reports))
		copy(cloned.Reports, a.Reports)
	}
	if a.Tags != nil {
		cloned.Tags = make([]string, len(a.Tags))
		copy(cloned.Tags, a.Tags)
	}

	return &cloned
}

// IsValidAlertKind reports whether kind is a known alert kind.
func IsValidAlertKind(kind AlertKind) bool {
	return slices.Contains(AlertKinds, kind)
}

// IsValidSeverity reports whether severity is a known severity.
func IsValidSeverity(severity Severity) bool {
	return slices.Contains(Severities, severity)
}

// NextReportTime returns the timestamp to record for a report appended after the
// given ones: candidate truncated to microseconds, bumped past the latest existing
// report so timestamps within one alert are strictly increasing.
func NextReportTime(existing []Report, candidate time.Time) time.Time {
	next := candidate.UTC().Truncate(time.Microsecond)
	if len(existing) == 0 {
		return next
	}

	last := existing[len(existing)-1].CreatedAt
	if !next.After(last) {
		next = last.Add(time.Microsecond)
	}

	return next
}
