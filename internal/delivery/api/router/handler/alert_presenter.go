package handler

import (
	"time"

	"rutopia/internal/domain/entity"
	"rutopia/internal/util"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// AlertView is the wire shape of an alert. Derived fields are computed at render time.
type AlertView struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Kind             entity.AlertKind  `json:"kind"`
	Severity         entity.Severity   `json:"severity"`
	Location         *geojson.Geometry `json:"location"` // GeoJSON Point, [longitude, latitude]
	Address          string            `json:"address,omitempty"`
	Active           bool              `json:"active"`
	Expired          bool              `json:"expired"`
	CreatorID        string            `json:"creator_id"`
	Reports          []entity.Report   `json:"reports"`
	Tags             []string          `json:"tags"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	RemainingMinutes int               `json:"remaining_minutes"`
	Elapsed          string            `json:"elapsed"`
}

func presentAlert(alert *entity.Alert, now time.Time) *AlertView {
	reports := alert.Reports
	if reports == nil {
		reports = []entity.Report{}
	}
	tags := alert.Tags
	if tags == nil {
		tags = []string{}
	}

	return &AlertView{
		ID:               alert.ID,
		Title:            alert.Title,
		Description:      alert.Description,
		Kind:             alert.Kind,
		Severity:         alert.Severity,
		Location:         geojson.NewGeometry(alert.Location.Point()),
		Address:          alert.Address,
		Active:           alert.IsEffectivelyActive(now),
		Expired:          alert.IsExpired(now),
		CreatorID:        alert.CreatorID,
		Reports:          reports,
		Tags:             tags,
		CreatedAt:        alert.CreatedAt,
		UpdatedAt:        alert.UpdatedAt,
		ExpiresAt:        alert.ExpiresAt,
		RemainingMinutes: alert.RemainingMinutes(now),
		Elapsed:          util.FormatElapsed(now.Sub(alert.CreatedAt)),
	}
}

func presentAlerts(alerts []*entity.Alert, now time.Time) []*AlertView {
	views := make([]*AlertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, presentAlert(alert, now))
	}

	return views
}
