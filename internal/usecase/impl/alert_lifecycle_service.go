// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rutopia/config"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/repository"
	"rutopia/internal/domain/service"
	"rutopia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// alertLifecycleService implements the AlertLifecycleUsecase interface.
type alertLifecycleService struct {
	alertRepo repository.AlertRepository
	publisher service.EventPublisher
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewAlertLifecycleService is the constructor for alertLifecycleService.
func NewAlertLifecycleService(
	alertRepo repository.AlertRepository,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AlertLifecycleUsecase {
	return &alertLifecycleService{
		alertRepo: alertRepo,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *alertLifecycleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAlert validates the request, applies defaults and stores a new active alert.
func (srv *alertLifecycleService) CreateAlert(ctx context.Context, creatorID string, input *usecase.CreateAlertInput) (*entity.Alert, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, domainerrors.ErrInvalidInput.WithDetails("creator ID is required")
	}
	if input == nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("request body is required")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, domainerrors.ErrInvalidInput.WithDetails("title and description are required")
	}

	location, err := locationFromCoordinates(input.Coordinates)
	if err != nil {
		return nil, err
	}

	now := srv.now().UTC()
	alert := &entity.Alert{
		Title:       title,
		Description: description,
		Kind:        entity.AlertKind(valueOrDefault(input.Kind, string(entity.AlertKindTraffic))),
		Severity:    entity.Severity(valueOrDefault(input.Severity, string(entity.SeverityMedium))),
		Location:    location,
		Address:     strings.TrimSpace(input.Address),
		Active:      true,
		CreatorID:   creatorID,
		Reports:     []entity.Report{},
		Tags:        normalizeTags(input.Tags),
		CreatedAt:   now,
		ExpiresAt:   now.Add(srv.alertTTL()),
	}
	if input.ExpiresAt != nil {
		alert.ExpiresAt = input.ExpiresAt.UTC()
	}

	if err := srv.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, errors.Wrap(err, "failed to create alert")
	}

	srv.log(ctx).Info("Alert created",
		slog.String("alert_id", alert.ID.String()),
		slog.String("kind", string(alert.Kind)),
		slog.String("severity", string(alert.Severity)),
	)
	srv.publish(ctx, service.AlertEventCreated, alert, creatorID, "")

	return settleExpiry(alert, now), nil
}

// UpdateAlert applies a partial update on behalf of the alert's creator.
func (srv *alertLifecycleService) UpdateAlert(ctx context.Context, alertID uuid.UUID, requesterID string, input *usecase.UpdateAlertInput) (*entity.Alert, error) {
	if input == nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("request body is required")
	}

	existing, err := srv.findOwnedAlert(ctx, alertID, requesterID)
	if err != nil {
		return nil, err
	}

	patch, err := buildAlertPatch(input)
	if err != nil {
		return nil, err
	}

	now := srv.now().UTC()
	if patch.IsEmpty() {
		return settleExpiry(existing, now), nil
	}

	if existing.Active && existing.IsExpired(now) {
		if err := srv.settleOverdue(ctx, alertID); err != nil {
			return nil, err
		}
	}

	updated, err := srv.alertRepo.UpdateAlert(ctx, alertID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return nil, domainerrors.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to update alert")
	}

	srv.log(ctx).Info("Alert updated", slog.String("alert_id", alertID.String()))
	srv.publish(ctx, service.AlertEventUpdated, updated, requesterID, "")

	return settleExpiry(updated, now), nil
}

// settleOverdue persists the deactivation of an alert whose expiry passed before
// the sweep reached it, so a later expires_at cannot bring it back.
func (srv *alertLifecycleService) settleOverdue(ctx context.Context, alertID uuid.UUID) error {
	if _, err := srv.alertRepo.DeactivateAlert(ctx, alertID); err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return domainerrors.ErrAlertNotFound
		}

		return errors.Wrap(err, "failed to settle expired alert")
	}

	srv.log(ctx).Debug("Overdue alert deactivated before update", slog.String("alert_id", alertID.String()))

	return nil
}

// DeactivateAlert soft-deletes an alert on behalf of its creator. Deactivating an
// already inactive alert succeeds without changing it.
func (srv *alertLifecycleService) DeactivateAlert(ctx context.Context, alertID uuid.UUID, requesterID string) (*entity.Alert, error) {
	existing, err := srv.findOwnedAlert(ctx, alertID, requesterID)
	if err != nil {
		return nil, err
	}

	deactivated, err := srv.alertRepo.DeactivateAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return nil, domainerrors.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to deactivate alert")
	}

	if existing.Active {
		srv.log(ctx).Info("Alert deactivated", slog.String("alert_id", alertID.String()))
		srv.publish(ctx, service.AlertEventDeactivated, deactivated, requesterID, "")
	}

	return deactivated, nil
}

// AppendReport records a report from any identified user.
func (srv *alertLifecycleService) AppendReport(ctx context.Context, alertID uuid.UUID, userID string, input *usecase.AppendReportInput) (*entity.Alert, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidInput.WithDetails("user ID is required")
	}
	if input == nil || strings.TrimSpace(input.Comment) == "" {
		return nil, domainerrors.ErrInvalidInput.WithDetails("comment is required")
	}

	now := srv.now().UTC()
	report := &entity.Report{
		UserID:    userID,
		Comment:   strings.TrimSpace(input.Comment),
		Kind:      entity.ReportKind(valueOrDefault(input.Kind, string(entity.ReportKindConfirmation))),
		CreatedAt: now,
	}

	alert, err := srv.alertRepo.AppendReport(ctx, alertID, report)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return nil, domainerrors.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to append report")
	}

	srv.log(ctx).Debug("Report appended",
		slog.String("alert_id", alertID.String()),
		slog.String("report_kind", string(report.Kind)),
		slog.Int("report_count", len(alert.Reports)),
	)
	srv.publish(ctx, service.AlertEventReported, alert, userID, report.Kind)

	return settleExpiry(alert, now), nil
}

// findOwnedAlert loads an alert and checks that requesterID created it.
func (srv *alertLifecycleService) findOwnedAlert(ctx context.Context, alertID uuid.UUID, requesterID string) (*entity.Alert, error) {
	alert, err := srv.alertRepo.FindAlertByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return nil, domainerrors.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to find alert")
	}

	if requesterID == "" || alert.CreatorID != requesterID {
		srv.log(ctx).Warn("Alert ownership check failed",
			slog.String("alert_id", alertID.String()),
			slog.String("requester_id", requesterID),
		)

		return nil, domainerrors.ErrAlertOwnershipViolation
	}

	return alert, nil
}

// publish emits a lifecycle event. Delivery is best effort: failures are logged
// and never fail the operation that triggered them.
func (srv *alertLifecycleService) publish(ctx context.Context, eventType service.AlertEventType, alert *entity.Alert, actorID string, reportKind entity.ReportKind) {
	event := &service.AlertEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		AlertID:    alert.ID.String(),
		ActorID:    actorID,
		Kind:       string(alert.Kind),
		Severity:   string(alert.Severity),
		Latitude:   alert.Location.Latitude,
		Longitude:  alert.Location.Longitude,
		ReportKind: string(reportKind),
		OccurredAt: srv.now().UTC(),
	}

	if err := srv.publisher.PublishAlertEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish alert event",
			slog.String("event_type", string(eventType)),
			slog.String("alert_id", event.AlertID),
			slog.Any("error", err),
		)
	}
}

func (srv *alertLifecycleService) alertTTL() time.Duration {
	if srv.config == nil || srv.config.Alerts.DefaultTTL <= 0 {
		return entity.DefaultAlertTTL
	}

	return srv.config.Alerts.DefaultTTL
}

// buildAlertPatch converts the request into a store patch, trimming text fields and
// restructuring a coordinate pair into a point.
func buildAlertPatch(input *usecase.UpdateAlertInput) (*repository.AlertPatch, error) {
	patch := &repository.AlertPatch{
		Title:       trimmedPtr(input.Title),
		Description: trimmedPtr(input.Description),
		Address:     trimmedPtr(input.Address),
	}

	if input.Kind != nil {
		kind := entity.AlertKind(strings.TrimSpace(*input.Kind))
		patch.Kind = &kind
	}
	if input.Severity != nil {
		severity := entity.Severity(strings.TrimSpace(*input.Severity))
		patch.Severity = &severity
	}
	if input.Coordinates != nil {
		location, err := locationFromCoordinates(*input.Coordinates)
		if err != nil {
			return nil, err
		}
		patch.Location = &location
	}
	if input.Tags != nil {
		tags := normalizeTags(*input.Tags)
		patch.Tags = &tags
	}
	if input.ExpiresAt != nil {
		expiresAt := input.ExpiresAt.UTC()
		patch.ExpiresAt = &expiresAt
	}

	return patch, nil
}

// locationFromCoordinates builds a point from a [longitude, latitude] pair. Range
// checks are left to entity validation.
func locationFromCoordinates(coordinates []float64) (entity.GeoPoint, error) {
	if len(coordinates) != 2 {
		return entity.GeoPoint{}, domainerrors.ErrInvalidInput.WithDetails("coordinates must be a [longitude, latitude] pair")
	}

	return entity.GeoPointFromPair(coordinates[0], coordinates[1]), nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)

	return &trimmed
}

func valueOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}

	return fallback
}

// settleExpiry reports an overdue alert as inactive even if no sweep has flipped it yet.
func settleExpiry(alert *entity.Alert, now time.Time) *entity.Alert {
	if alert != nil && alert.Active && alert.IsExpired(now) {
		alert.Active = false
	}

	return alert
}
