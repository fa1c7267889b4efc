package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"rutopia/config"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/repository"
	"rutopia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// alertQueryService implements the AlertQueryUsecase interface.
type alertQueryService struct {
	alertRepo repository.AlertRepository
	sweeper   usecase.ExpirySweeper
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewAlertQueryService is the constructor for alertQueryService.
func NewAlertQueryService(
	alertRepo repository.AlertRepository,
	sweeper usecase.ExpirySweeper,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AlertQueryUsecase {
	return &alertQueryService{
		alertRepo: alertRepo,
		sweeper:   sweeper,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (srv *alertQueryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetAlert returns one alert by ID.
func (srv *alertQueryService) GetAlert(ctx context.Context, alertID uuid.UUID) (*entity.Alert, error) {
	now := srv.sweep(ctx)

	alert, err := srv.alertRepo.FindAlertByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return nil, domainerrors.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to find alert")
	}

	return settleExpiry(alert, now), nil
}

// ListAlerts returns one page of alerts matching the filters. With a center the page
// is restricted to the radius and ordered nearest first, otherwise newest first.
func (srv *alertQueryService) ListAlerts(ctx context.Context, input *usecase.ListAlertsInput) (*usecase.AlertPage, error) {
	if input == nil {
		input = &usecase.ListAlertsInput{}
	}

	page, limit, err := srv.pageBounds(input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	kinds, err := parseKinds(input.Kinds)
	if err != nil {
		return nil, err
	}
	severities, err := parseSeverities(input.Severities)
	if err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := srv.sweep(ctx)
	query := repository.AlertQuery{
		Filter: repository.AlertFilter{
			Kinds:      kinds,
			Severities: severities,
			Active:     &active,
			Now:        now,
		},
		Sort:   repository.SortNewest,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if input.Center != nil {
		near, err := srv.geoRadius(input.Center, input.RadiusMeters, srv.config.Alerts.ListRadius)
		if err != nil {
			return nil, err
		}
		query.Filter.Near = near
		query.Sort = repository.SortNearest
	} else if input.RadiusMeters != nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("radius requires lat and lng")
	}

	alerts, total, err := srv.alertRepo.FindAlerts(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}

	for _, alert := range alerts {
		settleExpiry(alert, now)
	}

	return &usecase.AlertPage{
		Items: alerts,
		Pagination: usecase.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// NearbyAlerts returns active alerts around a point, nearest first then newest first.
func (srv *alertQueryService) NearbyAlerts(ctx context.Context, input *usecase.NearbyAlertsInput) ([]*entity.Alert, error) {
	if input == nil || input.Center == nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("lat and lng are required")
	}

	near, err := srv.geoRadius(input.Center, input.RadiusMeters, srv.config.Alerts.NearbyRadius)
	if err != nil {
		return nil, err
	}

	active := true
	now := srv.sweep(ctx)
	alerts, _, err := srv.alertRepo.FindAlerts(ctx, repository.AlertQuery{
		Filter: repository.AlertFilter{Active: &active, Near: near, Now: now},
		Sort:   repository.SortNearest,
		Limit:  srv.config.Alerts.NearbyLimit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find nearby alerts")
	}

	return alerts, nil
}

// Statistics counts the active alerts, in total and per kind and per severity.
func (srv *alertQueryService) Statistics(ctx context.Context) (*entity.AlertStatistics, error) {
	now := srv.sweep(ctx)

	buckets, err := srv.alertRepo.CountActiveByKindAndSeverity(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate alert statistics")
	}

	return entity.NewAlertStatistics(buckets), nil
}

// sweep runs the expiry sweep ahead of a read and returns the instant the read
// should evaluate activity at. A failed sweep is logged; the read still proceeds
// because the store filters treat overdue alerts as inactive on their own.
func (srv *alertQueryService) sweep(ctx context.Context) time.Time {
	if _, err := srv.sweeper.Sweep(ctx); err != nil {
		srv.log(ctx).Warn("Expiry sweep failed before read", slog.Any("error", err))
	}

	return srv.now().UTC()
}

func (srv *alertQueryService) pageBounds(page, limit int) (int, int, error) {
	if page < 0 || limit < 0 {
		return 0, 0, domainerrors.ErrInvalidInput.WithDetails("page and limit must be positive")
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = srv.config.Alerts.DefaultPageSize
	}
	if limit > srv.config.Alerts.MaxPageSize {
		return 0, 0, domainerrors.ErrInvalidInput.WithDetails(fmt.Sprintf("limit must be at most %d", srv.config.Alerts.MaxPageSize))
	}
	// keeps (page-1)*limit representable as an offset
	if page > math.MaxInt32/limit {
		return 0, 0, domainerrors.ErrInvalidInput.WithDetails("page is out of range")
	}

	return page, limit, nil
}

func (srv *alertQueryService) geoRadius(center *entity.GeoPoint, radius *float64, fallback float64) (*repository.GeoRadius, error) {
	if !finite(center.Longitude) || !finite(center.Latitude) ||
		center.Longitude < -180 || center.Longitude > 180 || center.Latitude < -90 || center.Latitude > 90 {
		return nil, domainerrors.ErrInvalidInput.WithDetails("lng must be within [-180, 180] and lat within [-90, 90]")
	}

	meters := fallback
	if radius != nil {
		if !finite(*radius) || *radius <= 0 {
			return nil, domainerrors.ErrInvalidInput.WithDetails("radius must be a positive number")
		}
		meters = *radius
	}

	return &repository.GeoRadius{Center: *center, RadiusMeters: meters}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseKinds(raw []string) ([]entity.AlertKind, error) {
	kinds := make([]entity.AlertKind, 0, len(raw))
	for _, value := range raw {
		kind := entity.AlertKind(value)
		if !entity.IsValidAlertKind(kind) {
			return nil, domainerrors.ErrInvalidInput.WithDetails(fmt.Sprintf("unknown kind %q", value))
		}
		kinds = append(kinds, kind)
	}

	return kinds, nil
}

func parseSeverities(raw []string) ([]entity.Severity, error) {
	severities := make([]entity.Severity, 0, len(raw))
	for _, value := range raw {
		severity := entity.Severity(value)
		if !entity.IsValidSeverity(severity) {
			return nil, domainerrors.ErrInvalidInput.WithDetails(fmt.Sprintf("unknown severity %q", value))
		}
		severities = append(severities, severity)
	}

	return severities, nil
}

// totalPages is ceil(total/limit).
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}

	return int((total + int64(limit) - 1) / int64(limit))
}
