package impl

import (
	"io"
	"log/slog"
	"time"

	"rutopia/config"
	"rutopia/internal/domain/entity"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return cfg
}

func fixedClock() time.Time {
	return fixedNow
}

func newStoredAlert(creatorID string) *entity.Alert {
	return &entity.Alert{
		ID:          uuid.New(),
		Title:       "Flooded underpass",
		Description: "Water up to the wheel arches",
		Kind:        entity.AlertKindNatural,
		Severity:    entity.SeverityHigh,
		Location:    entity.GeoPointFromPair(-74.06, 4.65),
		Active:      true,
		CreatorID:   creatorID,
		Reports:     []entity.Report{},
		Tags:        []string{},
		CreatedAt:   fixedNow.Add(-time.Hour),
		UpdatedAt:   fixedNow.Add(-time.Hour),
		ExpiresAt:   fixedNow.Add(23 * time.Hour),
	}
}
