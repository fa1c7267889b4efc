package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AlertModel is the GORM-specific struct for the 'alerts' table.
// The spatial column used for proximity queries is derived from Longitude and
// Latitude by the database (see the spatial index schema), so it is not mapped here.
type AlertModel struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primary_key"`
	Title       string                           `gorm:"type:varchar(100);not null"`
	Description string                           `gorm:"type:varchar(500);not null"`
	Kind        string                           `gorm:"type:varchar(16);not null;index:idx_alerts_kind_severity,priority:1"`
	Severity    string                           `gorm:"type:varchar(16);not null;index:idx_alerts_kind_severity,priority:2"`
	Longitude   float64                          `gorm:"type:double precision;not null"`
	Latitude    float64                          `gorm:"type:double precision;not null"`
	Address     string                           `gorm:"type:varchar(200);not null;default:''"`
	Active      bool                             `gorm:"not null;default:true;index"`
	CreatorID   string                           `gorm:"type:varchar(128);not null;index"`
	Reports     datatypes.JSONSlice[ReportModel] `gorm:"type:jsonb;not null"`
	Tags        datatypes.JSONSlice[string]      `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time                        `gorm:"not null;index:idx_alerts_created_at,sort:desc"`
	UpdatedAt   time.Time                        `gorm:"not null"`
	ExpiresAt   time.Time                        `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AlertModel) TableName() string {
	return "alerts"
}

// ReportModel is one element of the alerts.reports JSONB array.
type ReportModel struct {
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertBucketRow receives one row of the grouped statistics query.
type AlertBucketRow struct {
	Kind     string
	Severity string
	Count    int64
}
