// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/repository"
	"rutopia/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// alertRepository implements the repository.AlertRepository interface.
type alertRepository struct {
	db      *gorm.DB
	spatial SpatialIndex
	now     func() time.Time
}

// NewAlertRepository is the constructor for alertRepository.
func NewAlertRepository(db *gorm.DB, spatial SpatialIndex) repository.AlertRepository {
	return &alertRepository{
		db:      db,
		spatial: spatial,
		now:     time.Now,
	}
}

// CreateAlert validates and persists a new alert.
func (repo *alertRepository) CreateAlert(ctx context.Context, alert *entity.Alert) error {
	if err := entity.ValidateAlert(alert); err != nil {
		return err
	}

	if alert.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate alert ID")
		}
		alert.ID = id
	}

	now := repo.now().UTC()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = now
	}
	alert.UpdatedAt = alert.CreatedAt

	alertM := fromAlertDomain(alert)
	if err := repo.db.WithContext(ctx).Create(alertM).Error; err != nil {
		return translateWriteError(err, "failed to create alert")
	}

	return nil
}

// FindAlertByID retrieves an alert by its unique ID.
func (repo *alertRepository) FindAlertByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	var alertM model.AlertModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&alertM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAlertNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find alert by ID")
	}

	return toAlertDomain(&alertM), nil
}

// UpdateAlert applies the patch, validating only the touched fields.
func (repo *alertRepository) UpdateAlert(ctx context.Context, id uuid.UUID, patch *repository.AlertPatch) (*entity.Alert, error) {
	current, err := repo.FindAlertByID(ctx, id)
	if err != nil {
		return nil, err
	}

	touched := patch.Apply(current)
	if err := entity.ValidateAlertFields(current, touched...); err != nil {
		return nil, err
	}

	updates := patchColumns(patch, current)
	if len(updates) == 0 {
		return current, nil
	}
	now := repo.now().UTC()
	updates["updated_at"] = now
	// SET reads the pre-update row, so an overdue alert stays inactive whatever expires_at becomes.
	updates["active"] = gorm.Expr("active AND expires_at >= ?", now)

	var alertM model.AlertModel
	result := repo.db.WithContext(ctx).
		Model(&alertM).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, translateWriteError(result.Error, "failed to update alert")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrAlertNotFound
	}

	return toAlertDomain(&alertM), nil
}

// FindAlerts returns one page of matching alerts and the total number of matches.
func (repo *alertRepository) FindAlerts(ctx context.Context, query repository.AlertQuery) ([]*entity.Alert, int64, error) {
	total, err := repo.CountAlerts(ctx, query.Filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entity.Alert{}, 0, nil
	}

	tx := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Scopes(repo.filterScope(query.Filter))

	if query.Sort == repository.SortNearest && query.Filter.Near != nil {
		tx = tx.Order(clause.OrderBy{Expression: repo.spatial.NearestFirst(query.Filter.Near.Center)})
	} else {
		tx = tx.Order("created_at DESC")
	}

	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}

	var alertModels []*model.AlertModel
	if err := tx.Find(&alertModels).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to find alerts")
	}

	alerts := make([]*entity.Alert, 0, len(alertModels))
	for _, alertM := range alertModels {
		alerts = append(alerts, toAlertDomain(alertM))
	}

	return alerts, total, nil
}

// CountAlerts counts alerts matching the filter.
func (repo *alertRepository) CountAlerts(ctx context.Context, filter repository.AlertFilter) (int64, error) {
	var total int64

	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Scopes(repo.filterScope(filter)).
		Count(&total).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count alerts")
	}

	return total, nil
}

// DeactivateAlert sets active to false; an already inactive alert is returned unchanged.
func (repo *alertRepository) DeactivateAlert(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	var alertM model.AlertModel

	result := repo.db.WithContext(ctx).
		Model(&alertM).
		Clauses(clause.Returning{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{
			"active":     false,
			"updated_at": repo.now().UTC(),
		})
	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate alert")
	}

	if result.RowsAffected == 0 {
		return repo.FindAlertByID(ctx, id)
	}

	return toAlertDomain(&alertM), nil
}

// AppendReport appends under a row lock so concurrent appends on one alert serialize
// and none is lost; appends on different alerts never contend.
func (repo *alertRepository) AppendReport(ctx context.Context, id uuid.UUID, report *entity.Report) (*entity.Alert, error) {
	if err := entity.ValidateReport(report); err != nil {
		return nil, err
	}

	var alertM model.AlertModel
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&alertM).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrAlertNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to lock alert for report")
		}

		existing := toReportsDomain(alertM.Reports)
		stamped := *report
		stamped.CreatedAt = entity.NextReportTime(existing, report.CreatedAt)

		alertM.Reports = append(alertM.Reports, fromReportDomain(&stamped))
		alertM.UpdatedAt = repo.now().UTC()

		if err := tx.Model(&model.AlertModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"reports":    alertM.Reports,
				"updated_at": alertM.UpdatedAt,
			}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to append report")
		}

		report.CreatedAt = stamped.CreatedAt

		return nil
	})
	if err != nil {
		return nil, err
	}

	return toAlertDomain(&alertM), nil
}

// DeactivateExpired flips overdue active alerts to inactive.
func (repo *alertRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("active = ? AND expires_at < ?", true, now).
		Updates(map[string]any{
			"active":     false,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate expired alerts")
	}

	return result.RowsAffected, nil
}

// CountActiveByKindAndSeverity groups the alerts active at now by kind and severity.
func (repo *alertRepository) CountActiveByKindAndSeverity(ctx context.Context, now time.Time) ([]entity.AlertBucket, error) {
	var rows []model.AlertBucketRow

	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Select("kind, severity, COUNT(*) AS count").
		Where("active = ? AND expires_at >= ?", true, now).
		Group("kind, severity").
		Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to aggregate alert statistics")
	}

	buckets := make([]entity.AlertBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, entity.AlertBucket{
			Kind:     entity.AlertKind(row.Kind),
			Severity: entity.Severity(row.Severity),
			Count:    row.Count,
		})
	}

	return buckets, nil
}

// filterScope turns the filter into WHERE clauses. Activity is evaluated against
// filter.Now so an overdue alert never matches active=true, swept or not.
func (repo *alertRepository) filterScope(filter repository.AlertFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if len(filter.Kinds) > 0 {
			tx = tx.Where("kind IN ?", filter.Kinds)
		}
		if len(filter.Severities) > 0 {
			tx = tx.Where("severity IN ?", filter.Severities)
		}
		if filter.Active != nil {
			now := filter.Now
			if now.IsZero() {
				now = repo.now()
			}
			if *filter.Active {
				tx = tx.Where("active = ? AND expires_at >= ?", true, now)
			} else {
				tx = tx.Where("(active = ? OR expires_at < ?)", false, now)
			}
		}
		if filter.Near != nil {
			tx = tx.Where(repo.spatial.WithinRadius(filter.Near.Center, filter.Near.RadiusMeters))
		}

		return tx
	}
}

func translateWriteError(err error, details string) error {
	if isConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// patchColumns maps the touched fields of a patch onto column updates, taking the
// values from the already patched alert.
func patchColumns(patch *repository.AlertPatch, patched *entity.Alert) map[string]any {
	updates := make(map[string]any)
	if patch.Title != nil {
		updates["title"] = patched.Title
	}
	if patch.Description != nil {
		updates["description"] = patched.Description
	}
	if patch.Kind != nil {
		updates["kind"] = string(patched.Kind)
	}
	if patch.Severity != nil {
		updates["severity"] = string(patched.Severity)
	}
	if patch.Location != nil {
		updates["longitude"] = patched.Location.Longitude
		updates["latitude"] = patched.Location.Latitude
	}
	if patch.Address != nil {
		updates["address"] = patched.Address
	}
	if patch.ExpiresAt != nil {
		updates["expires_at"] = patched.ExpiresAt
	}
	if patch.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(nonNilStrings(patched.Tags))
	}

	return updates
}

// --- Mapper Functions ---

// toAlertDomain converts a GORM AlertModel to a domain Alert entity.
func toAlertDomain(data *model.AlertModel) *entity.Alert {
	if data == nil {
		return nil
	}

	return &entity.Alert{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Kind:        entity.AlertKind(data.Kind),
		Severity:    entity.Severity(data.Severity),
		Location:    entity.GeoPointFromPair(data.Longitude, data.Latitude),
		Address:     data.Address,
		Active:      data.Active,
		CreatorID:   data.CreatorID,
		Reports:     toReportsDomain(data.Reports),
		Tags:        nonNilStrings(data.Tags),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		ExpiresAt:   data.ExpiresAt,
	}
}

// fromAlertDomain converts a domain Alert entity to a GORM AlertModel.
func fromAlertDomain(data *entity.Alert) *model.AlertModel {
	if data == nil {
		return nil
	}

	reports := make([]model.ReportModel, 0, len(data.Reports))
	for i := range data.Reports {
		reports = append(reports, fromReportDomain(&data.Reports[i]))
	}

	return &model.AlertModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Kind:        string(data.Kind),
		Severity:    string(data.Severity),
		Longitude:   data.Location.Longitude,
		Latitude:    data.Location.Latitude,
		Address:     data.Address,
		Active:      data.Active,
		CreatorID:   data.CreatorID,
		Reports:     datatypes.NewJSONSlice(reports),
		Tags:        datatypes.NewJSONSlice(nonNilStrings(data.Tags)),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		ExpiresAt:   data.ExpiresAt,
	}
}

func toReportsDomain(data []model.ReportModel) []entity.Report {
	reports := make([]entity.Report, 0, len(data))
	for _, r := range data {
		reports = append(reports, entity.Report{
			UserID:    r.UserID,
			Comment:   r.Comment,
			Kind:      entity.ReportKind(r.Kind),
			CreatedAt: r.CreatedAt,
		})
	}

	return reports
}

func fromReportDomain(data *entity.Report) model.ReportModel {
	return model.ReportModel{
		UserID:    data.UserID,
		Comment:   data.Comment,
		Kind:      string(data.Kind),
		CreatedAt: data.CreatedAt,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
